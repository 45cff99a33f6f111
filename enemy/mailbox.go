package enemy

// Death is the notice an enemy leaves when its HP reaches zero. Life is the
// generation the enemy was on when it died so that a notice arriving after
// the instance has been reused can be told apart from a fresh one.
type Death struct {
	Enemy *Enemy
	Life  uint64
}

// Mailbox is a simple FIFO of death notices owned by whoever tracks enemies.
type Mailbox struct {
	items []Death
}

func (m *Mailbox) Push(d Death) {
	if m == nil {
		return
	}
	m.items = append(m.items, d)
}

// Drain returns all queued notices and clears the mailbox.
func (m *Mailbox) Drain() []Death {
	if m == nil || len(m.items) == 0 {
		return nil
	}
	out := m.items
	m.items = nil
	return out
}

func (m *Mailbox) Len() int {
	if m == nil {
		return 0
	}
	return len(m.items)
}
