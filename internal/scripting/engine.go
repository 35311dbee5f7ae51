package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM for combat formulas.
// Single-goroutine access only (frame loop). A nil Engine is valid and
// every formula returns its fallback value.
type Engine struct {
	vm      *lua.LState
	log     *zap.Logger
	missing map[string]bool
}

// NewEngine creates a Lua engine and loads all scripts from the given directory.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	e := newEngine(log)

	for _, sub := range []string{"core", "combat"} {
		p := filepath.Join(scriptsDir, sub)
		if err := e.loadDir(p); err != nil {
			e.vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}

	return e, nil
}

// NewEngineFromString creates an engine running a single chunk of Lua.
func NewEngineFromString(src string, log *zap.Logger) (*Engine, error) {
	e := newEngine(log)
	if err := e.vm.DoString(src); err != nil {
		e.vm.Close()
		return nil, fmt.Errorf("load script: %w", err)
	}
	return e, nil
}

func newEngine(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))
	return &Engine{vm: vm, log: log, missing: make(map[string]bool)}
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// DamageContext holds pre-packed data for one damage application.
type DamageContext struct {
	Source       string // "bullet", "contact", "melee", "rush"
	Base         float64
	Attacker     string // tag name
	Target       string // tag name
	TargetHealth float64
	TargetMax    float64
	Frame        int
}

// CalcDamage calls the Lua calc_damage function. Missing functions, script
// errors and negative results fall back to ctx.Base.
func (e *Engine) CalcDamage(ctx DamageContext) float64 {
	fn := e.lookup("calc_damage")
	if fn == nil {
		return ctx.Base
	}

	t := e.vm.NewTable()
	t.RawSetString("source", lua.LString(ctx.Source))
	t.RawSetString("base", lua.LNumber(ctx.Base))
	t.RawSetString("attacker", lua.LString(ctx.Attacker))
	t.RawSetString("frame", lua.LNumber(ctx.Frame))

	tgt := e.vm.NewTable()
	tgt.RawSetString("tag", lua.LString(ctx.Target))
	tgt.RawSetString("health", lua.LNumber(ctx.TargetHealth))
	tgt.RawSetString("max_health", lua.LNumber(ctx.TargetMax))
	t.RawSetString("target", tgt)

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua calc_damage error", zap.Error(err))
		return ctx.Base
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	n, ok := result.(lua.LNumber)
	if !ok || n < 0 {
		e.log.Error("lua calc_damage returned invalid value", zap.String("value", result.String()))
		return ctx.Base
	}
	return float64(n)
}

// AttackCooldown calls calc_attack_cooldown(delay) and falls back to delay.
func (e *Engine) AttackCooldown(delay int) int {
	if e.lookup("calc_attack_cooldown") == nil {
		return delay
	}
	v, ok := e.callIntFunc("calc_attack_cooldown", delay)
	if !ok || v < 0 {
		return delay
	}
	return v
}

// lookup returns the global function or nil. A missing function is logged
// once.
func (e *Engine) lookup(name string) lua.LValue {
	if e == nil {
		return nil
	}
	fn := e.vm.GetGlobal(name)
	if fn.Type() != lua.LTFunction {
		if !e.missing[name] {
			e.missing[name] = true
			e.log.Debug("lua function not found, using fallback", zap.String("name", name))
		}
		return nil
	}
	return fn
}

func (e *Engine) callIntFunc(name string, args ...int) (int, bool) {
	fn := e.vm.GetGlobal(name)

	lArgs := make([]lua.LValue, len(args))
	for i, a := range args {
		lArgs[i] = lua.LNumber(a)
	}

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, lArgs...); err != nil {
		e.log.Error("lua call error", zap.String("func", name), zap.Error(err))
		return 0, false
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)
	n, ok := result.(lua.LNumber)
	return int(n), ok
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.vm.Close()
}
