// Package cli is a small hand-rolled flag parser and help-page renderer,
// in place of the standard library's flag package: positional args mixed
// freely with --long and -short flags, grouped under a synopsis/description
// the way a larger driver would present them.
package cli

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/term"
)

type Value interface {
	String() string
	Set(string) error
}

type stringValue struct{ p *string }

func (v *stringValue) Set(s string) error { *v.p = s; return nil }
func (v *stringValue) String() string     { return *v.p }

type boolValue struct{ p *bool }

func (v *boolValue) Set(s string) error {
	if s == "" {
		*v.p = true
		return nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return fmt.Errorf("invalid boolean value %q: %w", s, err)
	}
	*v.p = b
	return nil
}
func (v *boolValue) String() string { return strconv.FormatBool(*v.p) }

type Flag struct {
	Name      string
	Shorthand string
	Usage     string
	Value     Value
	DefValue  string
}

type FlagSet struct {
	name       string
	flags      map[string]*Flag
	shorthands map[string]*Flag
	args       []string
}

func NewFlagSet(name string) *FlagSet {
	return &FlagSet{
		name:       name,
		flags:      make(map[string]*Flag),
		shorthands: make(map[string]*Flag),
	}
}

func (f *FlagSet) Args() []string { return f.args }

func (f *FlagSet) String(p *string, name, shorthand, value, usage string) {
	*p = value
	f.register(&stringValue{p}, name, shorthand, usage, value)
}

func (f *FlagSet) Bool(p *bool, name, shorthand string, value bool, usage string) {
	*p = value
	f.register(&boolValue{p}, name, shorthand, usage, strconv.FormatBool(value))
}

func (f *FlagSet) register(value Value, name, shorthand, usage, defValue string) {
	flag := &Flag{Name: name, Shorthand: shorthand, Usage: usage, Value: value, DefValue: defValue}
	if _, ok := f.flags[name]; ok {
		panic(fmt.Sprintf("flag redefined: %s", name))
	}
	f.flags[name] = flag
	if shorthand != "" {
		f.shorthands[shorthand] = flag
	}
}

func (f *FlagSet) Lookup(name string) *Flag { return f.flags[name] }

func (f *FlagSet) Parse(arguments []string) error {
	f.args = nil
	for i := 0; i < len(arguments); i++ {
		arg := arguments[i]
		if len(arg) < 2 || arg[0] != '-' {
			f.args = append(f.args, arg)
			continue
		}
		if arg == "--" {
			f.args = append(f.args, arguments[i+1:]...)
			break
		}

		var name, inlineVal string
		hasInline := false
		if strings.HasPrefix(arg, "--") {
			body := arg[2:]
			if eq := strings.IndexByte(body, '='); eq >= 0 {
				name, inlineVal, hasInline = body[:eq], body[eq+1:], true
			} else {
				name = body
			}
		} else {
			body := arg[1:]
			if eq := strings.IndexByte(body, '='); eq >= 0 {
				name, inlineVal, hasInline = body[:eq], body[eq+1:], true
			} else {
				name = body
			}
		}

		flag, ok := f.flags[name]
		if !ok {
			flag, ok = f.shorthands[name]
		}
		if !ok {
			return fmt.Errorf("unknown flag: %s", arg)
		}

		if _, isBool := flag.Value.(*boolValue); isBool && !hasInline {
			if err := flag.Value.Set(""); err != nil {
				return err
			}
			continue
		}
		if hasInline {
			if err := flag.Value.Set(inlineVal); err != nil {
				return err
			}
			continue
		}
		if i+1 >= len(arguments) {
			return fmt.Errorf("flag needs an argument: %s", arg)
		}
		i++
		if err := flag.Value.Set(arguments[i]); err != nil {
			return err
		}
	}
	return nil
}

// App ties a FlagSet to an action and renders a help page grounded on the
// same synopsis/description/options shape a larger CLI driver would use.
type App struct {
	Name        string
	Synopsis    string
	Description string
	FlagSet     *FlagSet
	Action      func(args []string) error
}

func NewApp(name string) *App {
	return &App{Name: name, FlagSet: NewFlagSet(name)}
}

func (a *App) Run(arguments []string) error {
	help := false
	a.FlagSet.Bool(&help, "help", "h", false, "Display this information.")

	if err := a.FlagSet.Parse(arguments); err != nil {
		fmt.Fprintln(os.Stderr, err)
		a.printUsage(os.Stderr)
		return err
	}
	if help {
		a.printHelp(os.Stdout)
		return nil
	}
	if a.Action != nil {
		return a.Action(a.FlagSet.Args())
	}
	return nil
}

func (a *App) printUsage(w *os.File) {
	fmt.Fprintf(w, "Usage: %s %s\n", a.Name, a.Synopsis)
	fmt.Fprintf(w, "Run '%s --help' for the full option list.\n", a.Name)
}

func (a *App) printHelp(w *os.File) {
	fmt.Fprintf(w, "Usage: %s %s\n\n", a.Name, a.Synopsis)
	if a.Description != "" {
		fmt.Fprintf(w, "%s\n\n", a.Description)
	}

	var names []string
	maxLen := 0
	for name := range a.FlagSet.flags {
		names = append(names, name)
		if len(name) > maxLen {
			maxLen = len(name)
		}
	}
	sort.Strings(names)

	fmt.Fprintln(w, "Options:")
	width := terminalWidth()
	for _, name := range names {
		flag := a.FlagSet.flags[name]
		left := "--" + name
		if flag.Shorthand != "" {
			left = fmt.Sprintf("-%s, --%s", flag.Shorthand, name)
		}
		usage := flag.Usage
		if len(left)+len(usage)+4 > width {
			fmt.Fprintf(w, "  %-*s\n      %s\n", maxLen+4, left, usage)
		} else {
			fmt.Fprintf(w, "  %-*s %s\n", maxLen+4, left, usage)
		}
	}
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < 20 {
		return 80
	}
	return width
}
