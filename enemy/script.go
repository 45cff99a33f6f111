package enemy

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/jakecoffman/cp"
	lua "github.com/yuin/gopher-lua"
)

type scriptMover interface {
	Mover
	close()
}

// tengoMover runs a script that reads x, y, t, speed, target_x, target_y and
// assigns vx and vy.
type tengoMover struct {
	path     string
	compiled *tengo.Compiled
}

var tengoInputs = []string{"x", "y", "t", "speed", "target_x", "target_y"}

func newTengoMover(path string, src []byte) (*tengoMover, error) {
	script := tengo.NewScript(src)
	for _, name := range tengoInputs {
		_ = script.Add(name, 0.0)
	}
	_ = script.Add("vx", 0.0)
	_ = script.Add("vy", 0.0)

	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, err
	}
	return &tengoMover{path: path, compiled: compiled}, nil
}

func (m *tengoMover) Velocity(in MoveInput) (cp.Vector, error) {
	if m == nil || m.compiled == nil {
		return cp.Vector{}, fmt.Errorf("nil tengo mover")
	}
	values := [...]float64{in.Pos.X, in.Pos.Y, in.Elapsed, in.Speed, in.Target.X, in.Target.Y}
	for i, name := range tengoInputs {
		if err := m.compiled.Set(name, values[i]); err != nil {
			return cp.Vector{}, err
		}
	}
	if err := m.compiled.Run(); err != nil {
		return cp.Vector{}, fmt.Errorf("%s: %w", m.path, err)
	}
	return cp.Vector{
		X: m.compiled.Get("vx").Float(),
		Y: m.compiled.Get("vy").Float(),
	}, nil
}

func (m *tengoMover) close() {}

// luaMover calls a global velocity(x, y, t, speed, target_x, target_y)
// function returning vx, vy.
type luaMover struct {
	path string
	vm   *lua.LState
	fn   lua.LValue
}

func newLuaMover(path string, src []byte) (*luaMover, error) {
	vm := lua.NewState()
	if err := vm.DoString(string(src)); err != nil {
		vm.Close()
		return nil, err
	}
	fn := vm.GetGlobal("velocity")
	if fn.Type() != lua.LTFunction {
		vm.Close()
		return nil, fmt.Errorf("lua function velocity not found")
	}
	return &luaMover{path: path, vm: vm, fn: fn}, nil
}

func (m *luaMover) Velocity(in MoveInput) (cp.Vector, error) {
	if m == nil || m.vm == nil {
		return cp.Vector{}, fmt.Errorf("nil lua mover")
	}
	if err := m.vm.CallByParam(lua.P{
		Fn:      m.fn,
		NRet:    2,
		Protect: true,
	},
		lua.LNumber(in.Pos.X), lua.LNumber(in.Pos.Y), lua.LNumber(in.Elapsed),
		lua.LNumber(in.Speed), lua.LNumber(in.Target.X), lua.LNumber(in.Target.Y),
	); err != nil {
		return cp.Vector{}, fmt.Errorf("%s: %w", m.path, err)
	}
	vx := lua.LVAsNumber(m.vm.Get(-2))
	vy := lua.LVAsNumber(m.vm.Get(-1))
	m.vm.Pop(2)
	return cp.Vector{X: float64(vx), Y: float64(vy)}, nil
}

func (m *luaMover) close() {
	if m != nil && m.vm != nil {
		m.vm.Close()
		m.vm = nil
	}
}
