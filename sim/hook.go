package sim

// HookPos names the place where a hook fires, such as a clock edge or a
// token entering a channel.
type HookPos struct {
	Name string
}

// HookCtx describes one hook invocation. Domain is the object that fired,
// Item the token or cycle concerned, and Detail anything else the domain
// wants to pass along.
type HookCtx struct {
	Domain Hookable
	Pos    *HookPos
	Item   any
	Detail any
}

// Hookable is implemented by the objects that tracers can observe.
type Hookable interface {
	AcceptHook(hook Hook)
	Hooks() []Hook
}

// Hook observes a Hookable.
type Hook interface {
	Func(ctx HookCtx)
}

// HookFunc adapts a plain function to the Hook interface.
type HookFunc func(ctx HookCtx)

// Func calls f(ctx).
func (f HookFunc) Func(ctx HookCtx) {
	f(ctx)
}

// HookableBase keeps the hooks of a Hookable. Embed it and call InvokeHook
// at every hook position.
type HookableBase struct {
	hooks []Hook
}

// AcceptHook registers a hook. Hooks run in registration order.
func (h *HookableBase) AcceptHook(hook Hook) {
	if hook == nil {
		panic("cannot accept a nil hook")
	}

	h.hooks = append(h.hooks, hook)
}

// Hooks returns the registered hooks.
func (h *HookableBase) Hooks() []Hook {
	return h.hooks
}

// NumHooks returns the number of registered hooks.
func (h *HookableBase) NumHooks() int {
	return len(h.hooks)
}

// InvokeHook calls every hook with ctx.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.hooks {
		hook.Func(ctx)
	}
}
