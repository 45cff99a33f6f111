package event

// Bus is the process-wide publish/subscribe hub. It is built once at
// startup and handed to every service that publishes or listens.
//
// Bus is not safe for concurrent use; all calls must come from the game loop.
type Bus struct {
	handlers map[Topic][]handler
	nextID   uint64
}

type handler struct {
	id uint64
	fn func(Event)
}

// Subscription identifies a registered handler so it can be removed later.
type Subscription struct {
	topic Topic
	id    uint64
}

// Topic reports the topic the subscription listens on.
func (s Subscription) Topic() Topic {
	return s.topic
}

// Valid reports whether s refers to a handler that was registered.
func (s Subscription) Valid() bool {
	return s.id != 0
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[Topic][]handler)}
}

// Subscribe appends fn to the handler list of T's topic.
func Subscribe[T Event](b *Bus, fn func(T)) Subscription {
	if b == nil || fn == nil {
		return Subscription{}
	}
	var zero T
	topic := zero.Topic()
	b.nextID++
	id := b.nextID
	b.handlers[topic] = append(b.handlers[topic], handler{
		id: id,
		fn: func(ev Event) {
			if typed, ok := ev.(T); ok {
				fn(typed)
			}
		},
	})
	return Subscription{topic: topic, id: id}
}

// Publish delivers ev synchronously to every handler of its topic, in
// subscription order. Publishing to a topic without handlers does nothing.
func Publish[T Event](b *Bus, ev T) {
	if b == nil {
		return
	}
	// Unsubscribe never mutates a live slice, so ranging over the current
	// header is stable even if a handler changes the subscriber list.
	for _, h := range b.handlers[ev.Topic()] {
		h.fn(ev)
	}
}

// Unsubscribe removes the handler identified by sub. Unknown or already
// removed subscriptions are ignored.
func (b *Bus) Unsubscribe(sub Subscription) {
	if b == nil || !sub.Valid() {
		return
	}
	list := b.handlers[sub.topic]
	for i, h := range list {
		if h.id != sub.id {
			continue
		}
		next := make([]handler, 0, len(list)-1)
		next = append(next, list[:i]...)
		next = append(next, list[i+1:]...)
		b.handlers[sub.topic] = next
		return
	}
}

// Subscribers returns how many handlers are registered for topic.
func (b *Bus) Subscribers(topic Topic) int {
	if b == nil {
		return 0
	}
	return len(b.handlers[topic])
}
