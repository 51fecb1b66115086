package shell

import (
	"fmt"

	"nvcgo/internal/kernel"
)

func (sh *Shell) registerBuiltins() {
	sh.register(&Command{Name: "reset", Help: "reset         -- re-elaborate and restart the simulation at t=0", Run: cmdReset})
	sh.register(&Command{Name: "run", Help: "run <time>    -- advance the simulation by <time>, e.g. `run 10 ns`", Run: cmdRun})
	sh.register(&Command{Name: "continue", Help: "continue      -- advance by the duration of the last `run`", Run: cmdContinue})
	sh.register(&Command{Name: "examine", Help: "examine [sig] -- print a signal's current value, or all signals", Run: cmdExamine})
	sh.register(&Command{Name: "force", Help: "force <sig> <v> -- override a signal's value until released", Run: cmdForce})
	sh.register(&Command{Name: "release", Help: "release <sig> -- stop overriding a forced signal", Run: cmdRelease})
	sh.register(&Command{Name: "watch", Help: "watch <sig>   -- print every future value change of a signal", Run: cmdWatch})
	sh.register(&Command{Name: "quit", Help: "quit          -- end the shell session", Run: cmdQuit})
}

func cmdReset(sh *Shell, args []string) error {
	if sh.rebuild == nil {
		return fmt.Errorf("shell: reset: no elaboration source bound to this session")
	}
	design, err := sh.rebuild()
	if err != nil {
		return fmt.Errorf("shell: reset: %w", err)
	}
	sh.design = design
	sh.watchIDs = make(map[string]int)
	sh.lastRunFor = 0
	sh.emit(Event{Kind: Restart, At: design.Kernel.Now()})
	return nil
}

func cmdRun(sh *Shell, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("shell: run: expected a time, e.g. `run 10 ns`")
	}
	d, err := ParseDuration(joinTime(args))
	if err != nil {
		return err
	}
	return runFor(sh, d)
}

func cmdContinue(sh *Shell, args []string) error {
	if sh.lastRunFor == 0 {
		return fmt.Errorf("shell: continue: no prior `run` to repeat")
	}
	return runFor(sh, sh.lastRunFor)
}

func runFor(sh *Shell, d kernel.Time) error {
	sh.lastRunFor = d
	k := sh.design.Kernel
	sh.emit(Event{Kind: Start, At: k.Now()})
	until := k.Now() + d
	if err := k.Run(until); err != nil {
		return fmt.Errorf("shell: run: %w", err)
	}
	sh.emit(Event{Kind: NextStep, At: k.Now()})
	sh.printf(Stdout, "time is now %d fs", int64(k.Now()))
	return nil
}

func cmdExamine(sh *Shell, args []string) error {
	if len(args) == 0 {
		for _, name := range sortedSignalNames(sh.design) {
			sh.printf(Stdout, "%s = %s", name, formatValue(sh.design.Kernel.ValueOf(sh.design.Signals[name])))
		}
		return nil
	}
	id, err := sh.resolveSignal(args[0])
	if err != nil {
		return err
	}
	sh.printf(Stdout, "%s = %s", args[0], formatValue(sh.design.Kernel.ValueOf(id)))
	return nil
}

func cmdForce(sh *Shell, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("shell: force: usage: force <signal> <value>")
	}
	id, err := sh.resolveSignal(args[0])
	if err != nil {
		return err
	}
	width := len(sh.design.Kernel.ValueOf(id))
	v, err := parseValue(args[1], width)
	if err != nil {
		return fmt.Errorf("shell: force: %w", err)
	}
	sh.design.Kernel.Force(id, v)
	sh.emit(Event{Kind: SignalUpdate, Signal: id, Value: v, At: sh.design.Kernel.Now()})
	return nil
}

func cmdRelease(sh *Shell, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("shell: release: usage: release <signal>")
	}
	id, err := sh.resolveSignal(args[0])
	if err != nil {
		return err
	}
	sh.design.Kernel.Release(id)
	return nil
}

func cmdWatch(sh *Shell, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("shell: watch: usage: watch <signal>")
	}
	name := args[0]
	id, err := sh.resolveSignal(name)
	if err != nil {
		return err
	}
	if _, already := sh.watchIDs[name]; already {
		return nil
	}
	sh.watchIDs[name] = sh.design.Kernel.Watch(id, func(t kernel.Time, d kernel.Delta, v kernel.Value) {
		sh.emit(Event{Kind: SignalUpdate, Signal: id, Value: v, At: t})
		sh.printf(Stdout, "%d fs: %s = %s", int64(t), name, formatValue(v))
	})
	return nil
}

func cmdQuit(sh *Shell, args []string) error {
	sh.quit = true
	return nil
}

func (sh *Shell) resolveSignal(name string) (kernel.SignalID, error) {
	id, ok := sh.design.Signals[name]
	if !ok {
		return 0, fmt.Errorf("shell: no such signal %q", name)
	}
	return id, nil
}

func joinTime(args []string) string {
	out := args[0]
	for _, a := range args[1:] {
		out += " " + a
	}
	return out
}
