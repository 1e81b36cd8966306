// This file is part of Gopher386.
//
// Gopher386 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopher386 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopher386.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"time"

	"github.com/jetsetilly/gopher386/debugger"
	"github.com/jetsetilly/gopher386/debugger/terminal"
	"github.com/jetsetilly/gopher386/debugger/terminal/colorterm"
	"github.com/jetsetilly/gopher386/debugger/terminal/plainterm"
	"github.com/jetsetilly/gopher386/gui/sdlscreen"
	"github.com/jetsetilly/gopher386/hardware"
	"github.com/jetsetilly/gopher386/hardware/cpu"
	"github.com/jetsetilly/gopher386/hardware/preferences"
	"github.com/jetsetilly/gopher386/imageloader"
	"github.com/jetsetilly/gopher386/logger"
	"github.com/jetsetilly/gopher386/modalflag"
	"github.com/jetsetilly/gopher386/paths"
	"github.com/jetsetilly/gopher386/performance"
	"github.com/jetsetilly/gopher386/prefs"
	"github.com/jetsetilly/gopher386/statsview"
	"github.com/jetsetilly/gopher386/version"
	"github.com/jetsetilly/gopher386/wavwriter"
)

// exit values
const (
	exitParseError = 10
	exitModeError  = 20
)

// SDL calls must be made from the main thread
func init() {
	runtime.LockOSThread()
}

// communication between the main goroutine and the launch goroutine.
type mainSync struct {
	// the launch goroutine has finished. the value is the exit value
	quit chan int

	// screens must be created in the main thread. the launch goroutine sends
	// a creator function and waits for the result on one of the two creation
	// channels
	creator       chan func() (*sdlscreen.Screen, error)
	creation      chan *sdlscreen.Screen
	creationError chan error
}

// #mainthread
func main() {
	sync := &mainSync{
		quit:          make(chan int),
		creator:       make(chan func() (*sdlscreen.Screen, error)),
		creation:      make(chan *sdlscreen.Screen),
		creationError: make(chan error),
	}

	go launch(sync)

	// the screen is serviced at roughly the refresh rate of a monitor
	ticker := time.NewTicker(time.Second / 60)
	defer ticker.Stop()

	exitVal := 0
	done := false
	var scr *sdlscreen.Screen

	for !done {
		select {
		case exitVal = <-sync.quit:
			done = true

		case creator := <-sync.creator:
			if scr != nil {
				scr.Destroy()
				scr = nil
			}

			var err error
			scr, err = creator()
			if err != nil {
				scr = nil
				sync.creationError <- err
			} else {
				sync.creation <- scr
			}

		case <-ticker.C:
			if scr != nil && !scr.Service() {
				// closing the window doesn't end the emulation
				scr.Destroy()
				scr = nil
			}
		}
	}

	if scr != nil {
		scr.Destroy()
	}

	os.Exit(exitVal)
}

// launch is called from main() as a goroutine. uses mainSync instance to
// create the screen and to quit.
func launch(sync *mainSync) {
	md := &modalflag.Modes{Output: os.Stdout}
	md.NewArgs(os.Args[1:])
	md.NewMode()
	md.AddSubModes("RUN", "DEBUG", "PERFORMANCE", "VERSION")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		sync.quit <- 0
		return

	case modalflag.ParseError:
		fmt.Printf("* error: %v\n", err)
		sync.quit <- exitParseError
		return
	}

	exitVal := 0

	switch md.Mode() {
	case "RUN":
		exitVal, err = run(md, sync)

	case "DEBUG":
		err = debug(md, sync)

	case "PERFORMANCE":
		err = perform(md)

	case "VERSION":
		fmt.Println(version.String())
	}

	if err != nil {
		fmt.Printf("* error in %s mode: %s\n", md.String(), err)
		sync.quit <- exitModeError
		return
	}

	sync.quit <- exitVal
}

// options common to all modes that create a machine
type machineOptions struct {
	log   *bool
	prefs *string
	wav   *string
	sdl   *bool
	scale *int
}

func addMachineOptions(md *modalflag.Modes, display bool) machineOptions {
	opts := machineOptions{
		log:   md.AddBool("log", false, "echo debugging log to stdout"),
		prefs: md.AddString("prefs", "", "preferences to override. for example \"memory.size::32; cpu.timerinterval::1000\""),
	}
	if display {
		opts.wav = md.AddString("wav", "", "record audio to wav file. AUTO generates a filename")
		opts.sdl = md.AddBool("sdl", false, "show the framebuffer in a window")
		opts.scale = md.AddInt("scale", 2, "window scaling")
	}
	return opts
}

// newMachine creates the machine and loads the image named on the command
// line. the returned function should be called when the machine is no
// longer required.
func newMachine(md *modalflag.Modes, sync *mainSync, opts machineOptions) (*hardware.Machine, func(), error) {
	end := func() {}

	if *opts.log {
		logger.SetEcho(os.Stdout, false)
	}

	if *opts.prefs != "" {
		prefs.PushCommandLineStack(*opts.prefs)
	}

	var filename string
	switch len(md.RemainingArgs()) {
	case 0:
	case 1:
		filename = md.GetArg(0)
	default:
		return nil, end, fmt.Errorf("too many arguments for %s mode", md)
	}

	p, err := preferences.NewPreferences()
	if err != nil {
		return nil, end, err
	}

	m, err := hardware.NewMachine(p, os.Stdout)
	if err != nil {
		return nil, end, err
	}

	ld := imageloader.NewLoader(filename)
	if err := ld.Load(); err != nil {
		return nil, end, err
	}
	if err := m.LoadImage(ld.Data); err != nil {
		return nil, end, err
	}
	logger.Logf(logger.Allow, "main", "running %s", ld.ShortName())

	if opts.wav != nil && *opts.wav != "" {
		fn := *opts.wav
		if strings.ToUpper(fn) == "AUTO" {
			fn = fmt.Sprintf("%s.wav", paths.UniqueFilename("audio", ld.Filename))
		}

		aw, err := wavwriter.New(fn)
		if err != nil {
			return nil, end, err
		}
		m.Audio.AddMixer(aw)

		end = func() {
			if err := aw.EndMixing(); err != nil {
				logger.Log(logger.Allow, "main", err)
			}
		}
	}

	if opts.sdl != nil && *opts.sdl {
		scale := *opts.scale
		sync.creator <- func() (*sdlscreen.Screen, error) {
			return sdlscreen.NewScreen(m.VGA, m.Keyboard, scale)
		}

		select {
		case <-sync.creation:
		case err := <-sync.creationError:
			end()
			return nil, func() {}, err
		}
	}

	return m, end, nil
}

func run(md *modalflag.Modes, sync *mainSync) (int, error) {
	md.NewMode()

	opts := addMachineOptions(md, true)
	stats := md.AddBool("statsview", false, fmt.Sprintf("run stats server (%v)", statsview.Available()))

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return 0, err
	}

	m, end, err := newMachine(md, sync, opts)
	if err != nil {
		return 0, err
	}
	defer end()

	if *stats {
		statsview.Launch(os.Stdout)
	}

	// ctrl-c stops the emulation
	intChan := make(chan os.Signal, 1)
	signal.Notify(intChan, os.Interrupt)
	defer signal.Stop(intChan)

	_, err = m.Run(cpu.Unbounded, func() (bool, error) {
		select {
		case <-intChan:
			return false, nil
		default:
		}
		return true, nil
	})
	if err != nil {
		return 0, err
	}

	if m.CPU.State == cpu.Ended {
		return int(m.CPU.ExitCode & 0xff), nil
	}

	return 0, nil
}

func debug(md *modalflag.Modes, sync *mainSync) error {
	md.NewMode()

	opts := addMachineOptions(md, true)
	termType := md.AddString("term", "COLOR", "terminal type to use in debug mode: COLOR, PLAIN")
	quiet := md.AddBool("quiet", false, "print only errors and guest output")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	var term terminal.Terminal
	switch strings.ToUpper(*termType) {
	case "COLOR":
		term = &colorterm.ColorTerminal{}
	case "PLAIN":
		term = plainterm.NewPlainTerminal(nil, nil)
	default:
		return fmt.Errorf("unknown terminal: %s", *termType)
	}

	term.Silence(*quiet)

	m, end, err := newMachine(md, sync, opts)
	if err != nil {
		return err
	}
	defer end()

	dbg, err := debugger.NewDebugger(m, term)
	if err != nil {
		return err
	}

	return dbg.Start()
}

func perform(md *modalflag.Modes) error {
	md.NewMode()

	opts := addMachineOptions(md, false)
	duration := md.AddString("duration", "5s", "run duration")
	profile := md.AddString("profile", "none", "run performance check with profiling: CPU, MEM, TRACE, ALL (comma separated)")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	prf, err := performance.ParseProfileString(*profile)
	if err != nil {
		return err
	}

	m, end, err := newMachine(md, nil, opts)
	if err != nil {
		return err
	}
	defer end()

	return performance.Check(md.Output, prf, m, *duration)
}
