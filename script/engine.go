// Package script binds Lua behaviors to grove blueprints.
//
// A blueprint named "player" picks up the Lua globals player_create,
// player_step_begin, player_step, player_step_end, player_keyboard,
// player_mouse, player_draw and player_destroy. Each is called with the
// instance as its only argument:
//
//	function player_step(self)
//	  if keyboard_check(KEY_RIGHT) then self.x = self.x + 2 end
//	  if not self:place_free(self.x, self.y + 1) then self.vspeed = 0 end
//	end
package script

import (
	"os"
	"path/filepath"

	"github.com/phanxgames/grove"
	"github.com/pkg/errors"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

const instanceTypeName = "grove.instance"

// Engine wraps a single gopher-lua VM driving blueprint handlers.
// Single-goroutine access only (game loop).
type Engine struct {
	vm         *lua.LState
	game       *grove.Game
	log        *zap.Logger
	blueprints map[string]*grove.Blueprint
	methods    map[string]*lua.LFunction
	errCount   int
}

// NewEngine creates a Lua VM with the grove API installed.
func NewEngine(g *grove.Game, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	vm := lua.NewState()
	e := &Engine{
		vm:         vm,
		game:       g,
		log:        log,
		blueprints: make(map[string]*grove.Blueprint),
	}
	vm.SetGlobal("API_VERSION", lua.LNumber(1))
	e.registerInstanceType()
	e.registerGlobals()
	return e
}

// Close releases the VM.
func (e *Engine) Close() {
	e.vm.Close()
}

// Errors returns the number of Lua errors raised by handlers so far.
func (e *Engine) Errors() int { return e.errCount }

// LoadString runs a chunk of Lua source. name is used in error messages.
func (e *Engine) LoadString(name, src string) error {
	fn, err := e.vm.LoadString(src)
	if err != nil {
		return errors.Wrapf(err, "compile %s", name)
	}
	e.vm.Push(fn)
	if err := e.vm.PCall(0, lua.MultRet, nil); err != nil {
		return errors.Wrapf(err, "run %s", name)
	}
	return nil
}

// LoadFile runs a Lua file.
func (e *Engine) LoadFile(path string) error {
	if err := e.vm.DoFile(path); err != nil {
		return errors.Wrapf(err, "load %s", path)
	}
	e.log.Debug("loaded lua script", zap.String("file", path))
	return nil
}

// LoadDir runs every .lua file in dir in name order. A missing directory
// is not an error.
func (e *Engine) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "read %s", dir)
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		if err := e.LoadFile(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

// handlerSlots lists the global-name suffix for each bindable handler.
var handlerSlots = []struct {
	suffix string
	field  func(bp *grove.Blueprint) *grove.Handler
}{
	{"create", func(bp *grove.Blueprint) *grove.Handler { return &bp.OnCreate }},
	{"step_begin", func(bp *grove.Blueprint) *grove.Handler { return &bp.OnStepBegin }},
	{"step", func(bp *grove.Blueprint) *grove.Handler { return &bp.OnStep }},
	{"step_end", func(bp *grove.Blueprint) *grove.Handler { return &bp.OnStepEnd }},
	{"keyboard", func(bp *grove.Blueprint) *grove.Handler { return &bp.OnKeyboard }},
	{"mouse", func(bp *grove.Blueprint) *grove.Handler { return &bp.OnMouse }},
	{"draw", func(bp *grove.Blueprint) *grove.Handler { return &bp.OnDraw }},
	{"destroy", func(bp *grove.Blueprint) *grove.Handler { return &bp.OnDestroy }},
	{"animation_end", func(bp *grove.Blueprint) *grove.Handler { return &bp.OnAnimationEnd }},
	{"outside_room", func(bp *grove.Blueprint) *grove.Handler { return &bp.OnOutsideRoom }},
}

// Bind installs a handler on bp for every <name>_<event> Lua function that
// is currently defined, and makes bp reachable by name from Lua. Handlers
// already set from Go are replaced. Returns the number of handlers bound.
// Load scripts before binding and before instances of bp are created.
func (e *Engine) Bind(bp *grove.Blueprint) int {
	e.blueprints[bp.Name()] = bp
	n := 0
	for _, slot := range handlerSlots {
		global := bp.Name() + "_" + slot.suffix
		if _, ok := e.vm.GetGlobal(global).(*lua.LFunction); !ok {
			continue
		}
		*slot.field(bp) = e.handler(global)
		n++
	}
	return n
}

// Register makes bp reachable by name from Lua without binding handlers.
func (e *Engine) Register(bp *grove.Blueprint) {
	e.blueprints[bp.Name()] = bp
}

// handler returns a grove.Handler that calls the named global. The global
// is looked up on every call so reloaded scripts take effect.
func (e *Engine) handler(global string) grove.Handler {
	return func(self *grove.Instance) {
		fn, ok := e.vm.GetGlobal(global).(*lua.LFunction)
		if !ok {
			return
		}
		if err := e.vm.CallByParam(lua.P{
			Fn:      fn,
			NRet:    0,
			Protect: true,
		}, e.wrap(self)); err != nil {
			e.errCount++
			e.log.Error("lua handler error",
				zap.String("function", global),
				zap.Uint32("instance", uint32(self.ID())),
				zap.Error(err))
		}
	}
}

// Call invokes a global Lua function with an instance argument, for
// handlers bound from Go such as alarms and collisions.
func (e *Engine) Call(global string, self *grove.Instance, args ...lua.LValue) error {
	fn, ok := e.vm.GetGlobal(global).(*lua.LFunction)
	if !ok {
		return errors.Errorf("lua function %s not found", global)
	}
	params := append([]lua.LValue{e.wrap(self)}, args...)
	if err := e.vm.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, params...); err != nil {
		e.errCount++
		return errors.Wrapf(err, "call %s", global)
	}
	return nil
}

// Instance wraps inst as a Lua value.
func (e *Engine) Instance(inst *grove.Instance) lua.LValue {
	return e.wrap(inst)
}

// wrap returns inst as userdata, or nil for a nil instance.
func (e *Engine) wrap(inst *grove.Instance) lua.LValue {
	if inst == nil {
		return lua.LNil
	}
	ud := e.vm.NewUserData()
	ud.Value = inst
	e.vm.SetMetatable(ud, e.vm.GetTypeMetatable(instanceTypeName))
	return ud
}

// selector resolves a Lua selector argument: a blueprint name, an instance
// or nil for all.
func (e *Engine) selector(L *lua.LState, n int) grove.Selector {
	switch v := L.Get(n).(type) {
	case lua.LString:
		bp, ok := e.blueprints[string(v)]
		if !ok {
			L.ArgError(n, "unknown blueprint "+string(v))
			return nil
		}
		return bp
	case *lua.LUserData:
		if inst, ok := v.Value.(*grove.Instance); ok {
			return inst
		}
	case *lua.LNilType:
		return grove.All
	}
	L.ArgError(n, "blueprint name, instance or nil expected")
	return nil
}
