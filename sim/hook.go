package sim

// HookPos identifies a place in the simulation where hooks can fire, such
// as before an event or when a port receives a message.
type HookPos struct {
	Name string
}

// HookCtx describes one hook invocation: where it fired, on what object,
// and the item involved.
type HookCtx struct {
	Domain Hookable
	Pos    *HookPos
	Item   interface{}
	Detail interface{}
}

// Hookable is an object that hooks can attach to.
type Hookable interface {
	// AcceptHook attaches a hook.
	AcceptHook(hook Hook)

	// NumHooks returns how many hooks are attached.
	NumHooks() int

	// Hooks returns the attached hooks.
	Hooks() []Hook
}

// HookPosBeforeEvent fires right before an event is handled.
var HookPosBeforeEvent = &HookPos{Name: "BeforeEvent"}

// HookPosAfterEvent fires right after an event is handled.
var HookPosAfterEvent = &HookPos{Name: "AfterEvent"}

// A Hook observes the simulation without changing its behavior. Tracers and
// loggers are built as hooks.
type Hook interface {
	// Func runs when the hook fires.
	Func(ctx HookCtx)
}

// HookableBase implements Hookable for embedding in other types.
type HookableBase struct {
	hooks []Hook
}

// NewHookableBase creates an empty HookableBase.
func NewHookableBase() *HookableBase {
	return &HookableBase{}
}

// AcceptHook attaches a hook.
func (h *HookableBase) AcceptHook(hook Hook) {
	h.hooks = append(h.hooks, hook)
}

// NumHooks returns how many hooks are attached.
func (h *HookableBase) NumHooks() int {
	return len(h.hooks)
}

// Hooks returns the attached hooks.
func (h *HookableBase) Hooks() []Hook {
	return h.hooks
}

// InvokeHook fires every attached hook with the given context.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.hooks {
		hook.Func(ctx)
	}
}
