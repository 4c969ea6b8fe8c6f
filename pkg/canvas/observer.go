package canvas

// Observer receives notifications after canvas operations complete.
type Observer interface {
	// OnGraphJoined is called after a join produced graph g.
	OnGraphJoined(g ID)

	// OnGraphSeparated is called once per separation that spawned at least
	// one new graph out of from.
	OnGraphSeparated(from ID, spawned []ID)

	// OnChanged is called after any change that should mark the document
	// as modified.
	OnChanged()
}

// NoopObserver ignores every notification.
type NoopObserver struct{}

func (NoopObserver) OnGraphJoined(ID)          {}
func (NoopObserver) OnGraphSeparated(ID, []ID) {}
func (NoopObserver) OnChanged()                {}

// ObserverFuncs adapts plain functions to the Observer interface. Nil
// fields are skipped.
type ObserverFuncs struct {
	GraphJoined    func(g ID)
	GraphSeparated func(from ID, spawned []ID)
	Changed        func()
}

func (f ObserverFuncs) OnGraphJoined(g ID) {
	if f.GraphJoined != nil {
		f.GraphJoined(g)
	}
}

func (f ObserverFuncs) OnGraphSeparated(from ID, spawned []ID) {
	if f.GraphSeparated != nil {
		f.GraphSeparated(from, spawned)
	}
}

func (f ObserverFuncs) OnChanged() {
	if f.Changed != nil {
		f.Changed()
	}
}

// Subscribe registers o for notifications. Observers are called in
// registration order.
func (c *Canvas) Subscribe(o Observer) {
	if o != nil {
		c.observers = append(c.observers, o)
	}
}

func (c *Canvas) notifyJoined(g ID) {
	for _, o := range c.observers {
		o.OnGraphJoined(g)
	}
}

func (c *Canvas) notifySeparated(from ID, spawned []ID) {
	for _, o := range c.observers {
		o.OnGraphSeparated(from, spawned)
	}
}

func (c *Canvas) notifyChanged() {
	for _, o := range c.observers {
		o.OnChanged()
	}
}
