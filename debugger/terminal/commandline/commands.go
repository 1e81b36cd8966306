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

package commandline

import (
	"fmt"
	"sort"
	"strings"
)

type argType int

const (
	argRequired argType = iota
	argOptional
	argRepeat
)

// an option is a literal word or a placeholder
type option struct {
	tag   string
	label string
}

func (o option) isPlaceholder() bool {
	return len(o.tag) == 2 && o.tag[0] == '%'
}

// usage representation of the option
func (o option) String() string {
	if o.isPlaceholder() {
		if o.label != "" {
			return fmt.Sprintf("<%s>", o.label)
		}
		switch o.tag {
		case "%N":
			return "<number>"
		case "%F":
			return "<file>"
		}
		return "<string>"
	}
	return o.tag
}

// verbose representation used in error messages
func (o option) verbose() string {
	if o.isPlaceholder() {
		if o.label != "" {
			return o.label
		}
		switch o.tag {
		case "%N":
			return "numeric argument"
		case "%F":
			return "filename argument"
		}
		return "string argument"
	}
	return o.tag
}

type argument struct {
	typ     argType
	options []option
}

func (a argument) String() string {
	s := make([]string, len(a.options))
	for i := range a.options {
		s[i] = a.options[i].String()
	}
	o := strings.Join(s, "|")

	switch a.typ {
	case argOptional:
		return fmt.Sprintf("(%s)", o)
	case argRepeat:
		return fmt.Sprintf("{%s}", o)
	}
	if len(a.options) > 1 {
		return fmt.Sprintf("[%s]", o)
	}
	return o
}

func (a argument) verbose() string {
	s := make([]string, len(a.options))
	for i := range a.options {
		s[i] = a.options[i].verbose()
	}
	return strings.Join(s, " or ")
}

type command struct {
	keyword string
	args    []argument
}

func (c command) String() string {
	s := strings.Builder{}
	s.WriteString(c.keyword)
	for _, a := range c.args {
		s.WriteString(" ")
		s.WriteString(a.String())
	}
	return s.String()
}

// Commands is the result of parsing a command template.
type Commands struct {
	cmds    []*command
	index   map[string]*command
	aliases map[string]string

	helpCommand string
	helps       map[string]string
}

// ParseCommandTemplate turns a template into an instance of Commands. See
// package documentation for the template syntax.
func ParseCommandTemplate(template []string) (*Commands, error) {
	cmds := &Commands{
		index:   make(map[string]*command),
		aliases: make(map[string]string),
	}

	for _, t := range template {
		if err := cmds.add(t); err != nil {
			return nil, err
		}
	}

	sort.Slice(cmds.cmds, func(i, j int) bool {
		return cmds.cmds[i].keyword < cmds.cmds[j].keyword
	})

	return cmds, nil
}

func (cmds *Commands) add(defn string) error {
	fields := strings.Fields(defn)
	if len(fields) == 0 {
		return fmt.Errorf("commandline: empty template entry")
	}

	c := &command{keyword: strings.ToUpper(fields[0])}
	if _, ok := cmds.index[c.keyword]; ok {
		return fmt.Errorf("commandline: %s: already defined", c.keyword)
	}

	for _, f := range fields[1:] {
		a, err := parseArgument(f)
		if err != nil {
			return fmt.Errorf("commandline: %s: %w", c.keyword, err)
		}

		if len(c.args) > 0 && c.args[len(c.args)-1].typ == argRepeat {
			return fmt.Errorf("commandline: %s: repeat group must be the last argument", c.keyword)
		}

		c.args = append(c.args, a)
	}

	cmds.cmds = append(cmds.cmds, c)
	cmds.index[c.keyword] = c

	return nil
}

func parseArgument(f string) (argument, error) {
	a := argument{typ: argRequired}

	switch f[0] {
	case '[', '(', '{':
		closer := map[byte]byte{'[': ']', '(': ')', '{': '}'}[f[0]]
		if len(f) < 3 || f[len(f)-1] != closer {
			return a, fmt.Errorf("unclosed group (%s)", f)
		}
		switch f[0] {
		case '(':
			a.typ = argOptional
		case '{':
			a.typ = argRepeat
		}
		f = f[1 : len(f)-1]
	}

	if strings.ContainsAny(f, "[](){}") {
		return a, fmt.Errorf("nested groups are not supported (%s)", f)
	}

	for _, o := range strings.Split(f, "|") {
		opt, err := parseOption(o)
		if err != nil {
			return a, err
		}
		a.options = append(a.options, opt)
	}

	return a, nil
}

func parseOption(o string) (option, error) {
	if o == "" {
		return option{}, fmt.Errorf("empty option")
	}

	if o[0] != '%' {
		return option{tag: strings.ToUpper(o)}, nil
	}

	// labelled placeholder. %<label>N
	label := ""
	if len(o) > 1 && o[1] == '<' {
		end := strings.IndexRune(o, '>')
		if end < 0 {
			return option{}, fmt.Errorf("unclosed placeholder label (%s)", o)
		}
		label = o[2:end]
		o = "%" + o[end+1:]
	}

	switch o {
	case "%N", "%S", "%F":
	default:
		return option{}, fmt.Errorf("unknown placeholder (%s)", o)
	}

	return option{tag: o, label: label}, nil
}

// AddAlias adds a short alternative for the keyword.
func (cmds *Commands) AddAlias(alias string, keyword string) error {
	alias = strings.ToUpper(alias)
	keyword = strings.ToUpper(keyword)
	if _, ok := cmds.index[keyword]; !ok {
		return fmt.Errorf("commandline: %s: no such command for alias %s", keyword, alias)
	}
	if _, ok := cmds.index[alias]; ok {
		return fmt.Errorf("commandline: %s: alias is already a command", alias)
	}
	cmds.aliases[alias] = keyword
	return nil
}

// resolve returns the keyword of the command, taking aliases into account
func (cmds Commands) resolve(s string) string {
	s = strings.ToUpper(s)
	if k, ok := cmds.aliases[s]; ok {
		return k
	}
	return s
}

// Keywords returns the sorted list of command keywords.
func (cmds Commands) Keywords() []string {
	k := make([]string, len(cmds.cmds))
	for i, c := range cmds.cmds {
		k[i] = c.keyword
	}
	return k
}

// String returns the normalised template. One command per line.
func (cmds Commands) String() string {
	s := strings.Builder{}
	for _, c := range cmds.cmds {
		s.WriteString(c.String())
		s.WriteString("\n")
	}
	return strings.TrimRight(s.String(), "\n")
}

// AddHelp adds a help command to an already prepared Commands type. The
// help command takes an optional argument of any of the other commands or
// their aliases.
func (cmds *Commands) AddHelp(helpCommand string, helps map[string]string) error {
	helpCommand = strings.ToUpper(helpCommand)
	if _, ok := cmds.index[helpCommand]; ok {
		return fmt.Errorf("commandline: %s: already defined", helpCommand)
	}

	a := argument{typ: argOptional}
	for _, c := range cmds.cmds {
		a.options = append(a.options, option{tag: c.keyword})
	}
	a.options = append(a.options, option{tag: helpCommand})

	aliases := make([]string, 0, len(cmds.aliases))
	for k := range cmds.aliases {
		aliases = append(aliases, k)
	}
	sort.Strings(aliases)
	for _, k := range aliases {
		a.options = append(a.options, option{tag: k})
	}

	c := &command{keyword: helpCommand, args: []argument{a}}
	cmds.cmds = append(cmds.cmds, c)
	cmds.index[helpCommand] = c
	sort.Slice(cmds.cmds, func(i, j int) bool {
		return cmds.cmds[i].keyword < cmds.cmds[j].keyword
	})

	cmds.helpCommand = helpCommand
	cmds.helps = helps

	return nil
}

// HelpOverview returns a columnised list of all commands.
func (cmds Commands) HelpOverview() string {
	longest := 0
	for _, c := range cmds.cmds {
		if len(c.keyword) > longest {
			longest = len(c.keyword)
		}
	}

	cols := 80 / (longest + 3)
	colFmt := fmt.Sprintf("%%-%ds", longest+3)

	s := strings.Builder{}
	for i, c := range cmds.cmds {
		s.WriteString(fmt.Sprintf(colFmt, c.keyword))
		if i%cols == cols-1 {
			s.WriteString("\n")
		}
	}
	return strings.TrimRight(s.String(), " \n")
}

// Help returns the help and usage for the command. Aliases are accepted.
func (cmds Commands) Help(keyword string) string {
	keyword = cmds.resolve(keyword)

	helpTxt, ok := cmds.helps[keyword]
	if !ok {
		return fmt.Sprintf("no help for %s", keyword)
	}

	s := strings.Builder{}
	s.WriteString(helpTxt)
	if c, ok := cmds.index[keyword]; ok {
		s.WriteString("\n\n  Usage: ")
		s.WriteString(c.String())
	}

	var aliases []string
	for k, v := range cmds.aliases {
		if v == keyword {
			aliases = append(aliases, k)
		}
	}
	if len(aliases) > 0 {
		sort.Strings(aliases)
		s.WriteString("\n  Alias: ")
		s.WriteString(strings.Join(aliases, ", "))
	}

	return s.String()
}
