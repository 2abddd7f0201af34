package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/crypto/ssh/terminal"

	"github.com/hornlog/horn"
	"github.com/hornlog/horn/engine"
)

// Version is a version of this build.
var Version = "hornsh/0.1"

func main() {
	var plain bool
	pflag.BoolVarP(&plain, "plain", "p", false, `read queries line by line without a raw terminal`)
	pflag.Parse()

	if plain {
		m := horn.New(os.Stdout)
		consultAll(m, pflag.Args())
		plainLoop(m)
		return
	}

	oldState, err := terminal.MakeRaw(0)
	if err != nil {
		log.Panicf("failed to enter raw mode: %v", err)
	}
	restore := func() {
		_ = terminal.Restore(0, oldState)
	}
	defer restore()

	t := terminal.NewTerminal(os.Stdin, "?- ")
	defer fmt.Printf("\r\n")

	log.SetOutput(t)

	m := horn.New(t)
	if err := m.TellNative(horn.Atom("halt"), func(*engine.Database, *engine.Subst, []horn.Term) engine.Goal {
		restore()
		fmt.Printf("\r\n")
		os.Exit(0)
		return engine.Unit
	}); err != nil {
		log.Panic(err)
	}
	if err := m.TellNative(horn.Functor("version", horn.Var("V")), func(_ *engine.Database, _ *engine.Subst, args []horn.Term) engine.Goal {
		return engine.Unify(args[0], horn.Atom(Version))
	}); err != nil {
		log.Panic(err)
	}

	consultAll(m, pflag.Args())

	var buf strings.Builder
	keys := bufio.NewReader(os.Stdin)
	for {
		if err := handleLine(&buf, m, t, keys); err != nil {
			log.Panic(err)
		}
	}
}

func consultAll(m *horn.Machine, files []string) {
	for _, a := range files {
		b, err := ioutil.ReadFile(a)
		if err != nil {
			log.Panicf("failed to read %s: %v", a, err)
		}
		clauses, err := parseProgram(string(b))
		if err != nil {
			log.Panicf("failed to parse %s: %v", a, err)
		}
		if err := m.Tell(clauses...); err != nil {
			log.Panicf("failed to load %s: %v", a, err)
		}
	}
}

func handleLine(buf *strings.Builder, m *horn.Machine, t *terminal.Terminal, keys *bufio.Reader) error {
	if buf.Len() == 0 {
		t.SetPrompt("?- ")
	} else {
		t.SetPrompt("|  ")
	}

	line, err := t.ReadLine()
	if err != nil {
		if err == io.EOF {
			return err
		}
		log.Printf("failed to read line: %v", err)
		buf.Reset()
		return nil
	}
	buf.WriteString(line)

	goal, err := parseQuery(buf.String())
	switch {
	case err == nil:
		break
	case errors.Is(err, errIncomplete):
		buf.WriteRune('\n')

		// Returns without resetting buf.
		return nil
	default:
		log.Printf("failed to parse: %v", err)
		buf.Reset()
		return nil
	}
	buf.Reset()

	sols, err := m.Ask(goal)
	if err != nil {
		log.Printf("failed to query: %v", err)
		return nil
	}

	c := 0
	for sols.Next() {
		c++

		bindings := map[string]engine.Term{}
		if err := sols.Scan(bindings); err != nil {
			log.Printf("failed to scan: %v", err)
			break
		}

		vars := sols.Vars()
		ls := make([]string, 0, len(vars))
		for _, n := range vars {
			v := bindings[n]
			if _, ok := v.(engine.Variable); ok {
				continue
			}
			ls = append(ls, fmt.Sprintf("%s = %s", n, v))
		}
		if len(ls) == 0 {
			if _, err := fmt.Fprintf(t, "%t.\n", true); err != nil {
				return err
			}
			break
		}

		if _, err := fmt.Fprintf(t, "%s ", strings.Join(ls, ",\n")); err != nil {
			return err
		}

		r, _, err := keys.ReadRune()
		if err != nil {
			log.Printf("failed to read rune: %v", err)
			break
		}
		if r != ';' {
			r = '.'
		}

		if _, err := fmt.Fprintf(t, "%s\n", string(r)); err != nil {
			return err
		}

		if r == '.' {
			break
		}
	}
	if err := sols.Close(); err != nil {
		return err
	}

	if err := sols.Err(); err != nil {
		log.Printf("failed: %v", err)
		return nil
	}

	if c == 0 {
		if _, err := fmt.Fprintf(t, "%t.\n", false); err != nil {
			return err
		}
	}

	return nil
}

// plainLoop reads one query per line and prints every solution. It
// serves pipes and tests, where a raw terminal is unavailable.
func plainLoop(m *horn.Machine) {
	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		goal, err := parseQuery(line)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			continue
		}
		sols, err := m.Ask(goal)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			continue
		}
		c := 0
		for sols.Next() {
			c++
			bindings := map[string]engine.Term{}
			if err := sols.Scan(bindings); err != nil {
				fmt.Printf("error: %v\n", err)
				break
			}
			ls := make([]string, 0, len(bindings))
			for _, n := range sols.Vars() {
				ls = append(ls, fmt.Sprintf("%s = %s", n, bindings[n]))
			}
			if len(ls) == 0 {
				fmt.Println("true.")
				break
			}
			fmt.Printf("%s.\n", strings.Join(ls, ", "))
		}
		if err := sols.Err(); err != nil {
			fmt.Printf("error: %v\n", err)
			continue
		}
		if c == 0 {
			fmt.Println("false.")
		}
	}
	if err := sc.Err(); err != nil {
		log.Fatal(err)
	}
}
