package script

import (
	"github.com/phanxgames/grove"
	lua "github.com/yuin/gopher-lua"
)

// instanceFields maps readable Lua field names to getters.
var instanceFields = map[string]func(inst *grove.Instance) lua.LValue{
	"id":          func(i *grove.Instance) lua.LValue { return lua.LNumber(i.ID()) },
	"name":        func(i *grove.Instance) lua.LValue { return lua.LString(i.Name()) },
	"x":           func(i *grove.Instance) lua.LValue { return lua.LNumber(i.X) },
	"y":           func(i *grove.Instance) lua.LValue { return lua.LNumber(i.Y) },
	"xprevious":   func(i *grove.Instance) lua.LValue { return lua.LNumber(i.XPrevious) },
	"yprevious":   func(i *grove.Instance) lua.LValue { return lua.LNumber(i.YPrevious) },
	"xstart":      func(i *grove.Instance) lua.LValue { return lua.LNumber(i.XStart) },
	"ystart":      func(i *grove.Instance) lua.LValue { return lua.LNumber(i.YStart) },
	"hspeed":      func(i *grove.Instance) lua.LValue { return lua.LNumber(i.HSpeed()) },
	"vspeed":      func(i *grove.Instance) lua.LValue { return lua.LNumber(i.VSpeed()) },
	"speed":       func(i *grove.Instance) lua.LValue { return lua.LNumber(i.Speed()) },
	"direction":   func(i *grove.Instance) lua.LValue { return lua.LNumber(i.Direction()) },
	"gravity":     func(i *grove.Instance) lua.LValue { return lua.LNumber(i.Gravity) },
	"friction":    func(i *grove.Instance) lua.LValue { return lua.LNumber(i.Friction) },
	"depth":       func(i *grove.Instance) lua.LValue { return lua.LNumber(i.Depth) },
	"alpha":       func(i *grove.Instance) lua.LValue { return lua.LNumber(i.Alpha) },
	"image_index": func(i *grove.Instance) lua.LValue { return lua.LNumber(i.FrameIndex) },
	"image_speed": func(i *grove.Instance) lua.LValue { return lua.LNumber(i.FrameRate) },
	"visible":     func(i *grove.Instance) lua.LValue { return lua.LBool(i.Visible) },
	"solid":       func(i *grove.Instance) lua.LValue { return lua.LBool(i.Solid) },
}

// instanceSetters maps writable Lua field names to setters.
var instanceSetters = map[string]func(L *lua.LState, inst *grove.Instance){
	"x":           func(L *lua.LState, i *grove.Instance) { i.SetPosition(float64(L.CheckNumber(3)), i.Y) },
	"y":           func(L *lua.LState, i *grove.Instance) { i.SetPosition(i.X, float64(L.CheckNumber(3))) },
	"hspeed":      func(L *lua.LState, i *grove.Instance) { i.SetHSpeed(float64(L.CheckNumber(3))) },
	"vspeed":      func(L *lua.LState, i *grove.Instance) { i.SetVSpeed(float64(L.CheckNumber(3))) },
	"speed":       func(L *lua.LState, i *grove.Instance) { i.SetSpeed(float64(L.CheckNumber(3))) },
	"direction":   func(L *lua.LState, i *grove.Instance) { i.SetDirection(float64(L.CheckNumber(3))) },
	"gravity":     func(L *lua.LState, i *grove.Instance) { i.Gravity = float64(L.CheckNumber(3)) },
	"friction":    func(L *lua.LState, i *grove.Instance) { i.Friction = float64(L.CheckNumber(3)) },
	"depth":       func(L *lua.LState, i *grove.Instance) { i.Depth = float64(L.CheckNumber(3)) },
	"alpha":       func(L *lua.LState, i *grove.Instance) { i.Alpha = float64(L.CheckNumber(3)) },
	"image_index": func(L *lua.LState, i *grove.Instance) { i.FrameIndex = float64(L.CheckNumber(3)) },
	"image_speed": func(L *lua.LState, i *grove.Instance) { i.FrameRate = float64(L.CheckNumber(3)) },
	"visible":     func(L *lua.LState, i *grove.Instance) { i.Visible = L.ToBool(3) },
	"solid":       func(L *lua.LState, i *grove.Instance) { i.Solid = L.ToBool(3) },
}

// checkInstance returns the instance at stack index n or raises an
// argument error.
func checkInstance(L *lua.LState, n int) *grove.Instance {
	ud := L.CheckUserData(n)
	if inst, ok := ud.Value.(*grove.Instance); ok {
		return inst
	}
	L.ArgError(n, "instance expected")
	return nil
}

func (e *Engine) registerInstanceType() {
	L := e.vm
	e.methods = map[string]*lua.LFunction{
		"destroy": L.NewFunction(func(L *lua.LState) int {
			checkInstance(L, 1).Destroy()
			return 0
		}),
		"exists": L.NewFunction(func(L *lua.LState) int {
			L.Push(lua.LBool(!checkInstance(L, 1).IsDestroyed()))
			return 1
		}),
		"place_free": L.NewFunction(func(L *lua.LState) int {
			inst := checkInstance(L, 1)
			L.Push(lua.LBool(inst.PlaceFree(float64(L.CheckNumber(2)), float64(L.CheckNumber(3)))))
			return 1
		}),
		"place_empty": L.NewFunction(func(L *lua.LState) int {
			inst := checkInstance(L, 1)
			L.Push(lua.LBool(inst.PlaceEmpty(float64(L.CheckNumber(2)), float64(L.CheckNumber(3)))))
			return 1
		}),
		"place_meeting": L.NewFunction(func(L *lua.LState) int {
			inst := checkInstance(L, 1)
			x, y := float64(L.CheckNumber(2)), float64(L.CheckNumber(3))
			L.Push(lua.LBool(inst.PlaceMeeting(x, y, e.selector(L, 4))))
			return 1
		}),
		"move_contact_solid": L.NewFunction(func(L *lua.LState) int {
			inst := checkInstance(L, 1)
			L.Push(lua.LBool(inst.MoveContactSolid(float64(L.CheckNumber(2)), float64(L.CheckNumber(3)))))
			return 1
		}),
		"move_wrap": L.NewFunction(func(L *lua.LState) int {
			inst := checkInstance(L, 1)
			inst.MoveWrap(L.ToBool(2), L.ToBool(3), float64(L.OptNumber(4, 0)))
			return 0
		}),
		"motion_set": L.NewFunction(func(L *lua.LState) int {
			checkInstance(L, 1).MotionSet(float64(L.CheckNumber(2)), float64(L.CheckNumber(3)))
			return 0
		}),
		"motion_add": L.NewFunction(func(L *lua.LState) int {
			checkInstance(L, 1).MotionAdd(float64(L.CheckNumber(2)), float64(L.CheckNumber(3)))
			return 0
		}),
		"move_towards_point": L.NewFunction(func(L *lua.LState) int {
			checkInstance(L, 1).MoveTowardsPoint(float64(L.CheckNumber(2)), float64(L.CheckNumber(3)), float64(L.CheckNumber(4)))
			return 0
		}),
		"distance_to_object": L.NewFunction(func(L *lua.LState) int {
			inst := checkInstance(L, 1)
			L.Push(lua.LNumber(inst.DistanceToObject(e.selector(L, 2))))
			return 1
		}),
		"set_alarm": L.NewFunction(func(L *lua.LState) int {
			inst := checkInstance(L, 1)
			i := L.CheckInt(2)
			if i < 0 || i >= grove.AlarmCount {
				L.ArgError(2, "alarm index out of range")
				return 0
			}
			inst.Alarm[i] = L.CheckInt(3)
			return 0
		}),
		"draw_self": L.NewFunction(func(L *lua.LState) int {
			checkInstance(L, 1).DrawSelf()
			return 0
		}),
	}

	mt := L.NewTypeMetatable(instanceTypeName)
	L.SetField(mt, "__index", L.NewFunction(func(L *lua.LState) int {
		inst := checkInstance(L, 1)
		key := L.CheckString(2)
		if m, ok := e.methods[key]; ok {
			L.Push(m)
			return 1
		}
		if get, ok := instanceFields[key]; ok {
			L.Push(get(inst))
			return 1
		}
		L.Push(lua.LNil)
		return 1
	}))
	L.SetField(mt, "__newindex", L.NewFunction(func(L *lua.LState) int {
		inst := checkInstance(L, 1)
		key := L.CheckString(2)
		set, ok := instanceSetters[key]
		if !ok {
			L.RaiseError("instance field %q is not writable", key)
			return 0
		}
		set(L, inst)
		return 0
	}))
	L.SetField(mt, "__eq", L.NewFunction(func(L *lua.LState) int {
		a, _ := L.CheckUserData(1).Value.(*grove.Instance)
		b, _ := L.CheckUserData(2).Value.(*grove.Instance)
		L.Push(lua.LBool(a != nil && a == b))
		return 1
	}))
}

func (e *Engine) registerGlobals() {
	L := e.vm
	g := e.game
	funcs := map[string]lua.LGFunction{
		"instance_create": func(L *lua.LState) int {
			x, y := float64(L.CheckNumber(1)), float64(L.CheckNumber(2))
			name := L.CheckString(3)
			bp, ok := e.blueprints[name]
			if !ok {
				L.ArgError(3, "unknown blueprint "+name)
				return 0
			}
			L.Push(e.wrap(g.InstanceCreate(x, y, bp)))
			return 1
		},
		"instance_find": func(L *lua.LState) int {
			L.Push(e.wrap(g.InstanceFind(grove.ID(L.CheckInt(1)))))
			return 1
		},
		"instance_destroy_id": func(L *lua.LState) int {
			g.InstanceDestroyID(grove.ID(L.CheckInt(1)))
			return 0
		},
		"instance_exists": func(L *lua.LState) int {
			L.Push(lua.LBool(g.InstanceExists(e.selector(L, 1))))
			return 1
		},
		"instance_number": func(L *lua.LState) int {
			L.Push(lua.LNumber(g.InstanceNumber(e.selector(L, 1))))
			return 1
		},
		"instance_nearest": func(L *lua.LState) int {
			x, y := float64(L.CheckNumber(1)), float64(L.CheckNumber(2))
			L.Push(e.wrap(g.InstanceNearest(x, y, e.selector(L, 3))))
			return 1
		},
		"instance_furthest": func(L *lua.LState) int {
			x, y := float64(L.CheckNumber(1)), float64(L.CheckNumber(2))
			L.Push(e.wrap(g.InstanceFurthest(x, y, e.selector(L, 3))))
			return 1
		},
		"keyboard_check": func(L *lua.LState) int {
			L.Push(lua.LBool(g.Keyboard().Check(grove.Key(L.CheckInt(1)))))
			return 1
		},
		"keyboard_check_pressed": func(L *lua.LState) int {
			L.Push(lua.LBool(g.Keyboard().CheckPressed(grove.Key(L.CheckInt(1)))))
			return 1
		},
		"keyboard_check_released": func(L *lua.LState) int {
			L.Push(lua.LBool(g.Keyboard().CheckReleased(grove.Key(L.CheckInt(1)))))
			return 1
		},
		"mouse_check_button": func(L *lua.LState) int {
			L.Push(lua.LBool(g.Mouse().Check(grove.MouseButton(L.CheckInt(1)))))
			return 1
		},
		"room_goto_next": func(L *lua.LState) int {
			g.RoomGotoNext()
			return 0
		},
		"room_goto_previous": func(L *lua.LState) int {
			g.RoomGotoPrevious()
			return 0
		},
		"room_restart": func(L *lua.LState) int {
			g.RoomRestart()
			return 0
		},
		"room_goto": func(L *lua.LState) int {
			name := L.CheckString(1)
			r := g.RoomByName(name)
			if r == nil {
				L.ArgError(1, "unknown room "+name)
				return 0
			}
			g.RoomGoto(r)
			return 0
		},
		"point_direction": func(L *lua.LState) int {
			L.Push(lua.LNumber(grove.PointDirection(
				float64(L.CheckNumber(1)), float64(L.CheckNumber(2)),
				float64(L.CheckNumber(3)), float64(L.CheckNumber(4)))))
			return 1
		},
		"point_distance": func(L *lua.LState) int {
			L.Push(lua.LNumber(grove.PointDistance(
				float64(L.CheckNumber(1)), float64(L.CheckNumber(2)),
				float64(L.CheckNumber(3)), float64(L.CheckNumber(4)))))
			return 1
		},
		"log": func(L *lua.LState) int {
			e.log.Info(L.CheckString(1))
			return 0
		},
	}
	for name, fn := range funcs {
		L.SetGlobal(name, L.NewFunction(fn))
	}
	L.SetGlobal("MB_LEFT", lua.LNumber(grove.MouseButtonLeft))
	L.SetGlobal("MB_RIGHT", lua.LNumber(grove.MouseButtonRight))
	L.SetGlobal("MB_MIDDLE", lua.LNumber(grove.MouseButtonMiddle))
}

// SetKeys publishes key codes as Lua globals, e.g. {"KEY_LEFT": ...}.
func (e *Engine) SetKeys(keys map[string]grove.Key) {
	for name, k := range keys {
		e.vm.SetGlobal(name, lua.LNumber(k))
	}
}
