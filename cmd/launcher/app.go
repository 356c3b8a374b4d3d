package main

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mhfrontier/launcher/pkg/launcher"
	"github.com/mhfrontier/launcher/pkg/model"
	"github.com/mhfrontier/launcher/pkg/version"
)

// app is the interactive console frontend. It renders the engine's state
// after every command and never touches the session directly.
type app struct {
	engine   *launcher.Engine
	client   *launcher.Client
	settings *launcher.Settings
	servers  *launcher.ServerList
	cfgPath  string
	in       *bufio.Scanner
}

func newApp(engine *launcher.Engine, client *launcher.Client, settings *launcher.Settings, cfgPath string) *app {
	servers := launcher.NewServerList()
	if err := servers.Load(); err != nil {
		slog.Warn("failed to load server list", "error", err)
	}
	return &app{
		engine:   engine,
		client:   client,
		settings: settings,
		servers:  servers,
		cfgPath:  cfgPath,
		in:       bufio.NewScanner(os.Stdin),
	}
}

// run is the command loop. It returns nil on quit or after a game
// session ends, and an error for unrecoverable failures.
func (a *app) run() error {
	fmt.Println("Monster Hunter Frontier launcher " + version.String())

	for {
		a.render()
		fmt.Print("> ")
		if !a.in.Scan() {
			fmt.Println()
			return a.in.Err()
		}

		fields := strings.Fields(a.in.Text())
		if len(fields) == 0 {
			continue
		}

		done, err := a.dispatch(fields[0], fields[1:])
		if err != nil || done {
			return err
		}
	}
}

func (a *app) dispatch(cmd string, args []string) (done bool, err error) {
	switch a.engine.State() {
	case launcher.StateLogin:
		return a.dispatchLogin(cmd, args)
	case launcher.StateCharacter:
		return a.dispatchCharacter(cmd, args)
	}
	return false, fmt.Errorf("unhandled state %v", a.engine.State())
}

func (a *app) render() {
	fmt.Println()
	if msg := a.engine.LastError(); msg != "" {
		fmt.Println("error: " + msg)
	}

	switch a.engine.State() {
	case launcher.StateLogin:
		host := a.client.Host()
		fmt.Printf("server: %s (%s)\n", host.Label(), host.BaseURL())
		fmt.Println("commands: login <user> | register <user> | host <local|name|url> | servers | save <name> | quit")
	case launcher.StateCharacter:
		a.renderSession()
		fmt.Println("commands: list | start <id> | create | delete <id> | logout | quit")
	}
}

func (a *app) renderSession() {
	sess := a.engine.Session()

	for _, n := range sess.Notifications {
		fmt.Println("! " + n)
	}
	if ev := sess.MezFes; ev != nil && ev.Active(time.Now()) {
		until := time.Unix(int64(ev.End), 0).Format("2006-01-02 15:04")
		fmt.Printf("Mezeporta Festival until %s, tickets: %d solo / %d group\n",
			until, ev.SoloTickets, ev.GroupTickets)
	}

	if courses := sess.User.Rights.Courses(); len(courses) > 0 {
		labels := make([]string, len(courses))
		for i, c := range courses {
			labels[i] = c.String()
		}
		fmt.Println("courses: " + strings.Join(labels, ", "))
	}

	if len(sess.Characters) == 0 {
		fmt.Println("no characters yet, use create to make one")
		return
	}
	fmt.Println("characters:")
	for _, ch := range sess.Characters {
		fmt.Println(formatCharacter(ch))
	}
}

func formatCharacter(ch model.Character) string {
	name := ch.Name
	if ch.IsNew || name == "" {
		name = "(new hunter)"
	}
	last := "never"
	if ch.LastLogin > 0 {
		last = time.Unix(ch.LastLogin, 0).Format("2006-01-02 15:04")
	}
	return fmt.Sprintf("  [%d] %-16s HR %-3d GR %-3d last login %s", ch.ID, name, ch.HR, ch.GR, last)
}

func (a *app) dispatchLogin(cmd string, args []string) (bool, error) {
	switch cmd {
	case "login", "register":
		if len(args) != 1 {
			fmt.Println("usage: " + cmd + " <user>")
			return false, nil
		}
		fmt.Print("password: ")
		if !a.in.Scan() {
			return true, a.in.Err()
		}
		password := a.in.Text()

		var err error
		if cmd == "login" {
			err = a.engine.Login(args[0], password)
		} else {
			err = a.engine.Register(args[0], password)
		}
		return false, a.recover(err)

	case "host":
		if len(args) != 1 {
			fmt.Println("usage: host <local|name|url>")
			return false, nil
		}
		a.setHost(args[0])
		return false, nil

	case "servers":
		if len(a.servers.Servers) == 0 {
			fmt.Println("no saved servers")
			return false, nil
		}
		for _, e := range a.servers.Servers {
			fmt.Printf("  %-16s %s\n", e.Name, e.URL)
		}
		return false, nil

	case "save":
		if len(args) != 1 {
			fmt.Println("usage: save <name>")
			return false, nil
		}
		host := a.client.Host()
		if host.Kind != launcher.HostCustom {
			fmt.Println("only custom servers can be saved")
			return false, nil
		}
		a.servers.Add(launcher.ServerEntry{Name: args[0], URL: host.Custom, LastUsed: time.Now().Unix()})
		if err := a.servers.Save(); err != nil {
			slog.Warn("failed to save server list", "error", err)
		}
		return false, nil

	case "quit", "exit":
		return true, nil
	}

	fmt.Println("unknown command: " + cmd)
	return false, nil
}

func (a *app) dispatchCharacter(cmd string, args []string) (bool, error) {
	switch cmd {
	case "list":
		// The loop re-renders the session before the next prompt.
		return false, nil

	case "start":
		id, ok := a.parseCharID(cmd, args)
		if !ok {
			return false, nil
		}
		if err := a.engine.StartCharacter(id); err != nil {
			return true, err
		}
		fmt.Println("game session ended")
		return true, nil

	case "create":
		err := a.engine.CreateCharacter()
		if err == nil {
			fmt.Println("game session ended")
			return true, nil
		}
		return false, a.recover(err)

	case "delete":
		id, ok := a.parseCharID(cmd, args)
		if !ok {
			return false, nil
		}
		return false, a.recover(a.engine.DeleteCharacter(id))

	case "logout":
		a.engine.Logout()
		return false, nil

	case "quit", "exit":
		return true, nil
	}

	fmt.Println("unknown command: " + cmd)
	return false, nil
}

// parseCharID validates a character id argument against the session.
func (a *app) parseCharID(cmd string, args []string) (uint32, bool) {
	if len(args) != 1 {
		fmt.Println("usage: " + cmd + " <id>")
		return 0, false
	}
	id, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		fmt.Println("not a character id: " + args[0])
		return 0, false
	}
	if _, ok := a.engine.Session().Character(uint32(id)); !ok {
		fmt.Printf("no character with id %d\n", id)
		return 0, false
	}
	return uint32(id), true
}

// setHost switches the target server. The argument is "local", the name
// of a saved server, or a base URL, and the choice is persisted.
func (a *app) setHost(arg string) {
	value := arg
	if e, ok := a.servers.Find(arg); ok {
		value = e.URL
		a.servers.Touch(e.URL, time.Now().Unix())
		if err := a.servers.Save(); err != nil {
			slog.Warn("failed to save server list", "error", err)
		}
	}

	host := launcher.ParseHost(value)
	a.client.SetHost(host)
	a.settings.Host = host.Value()
	if err := a.settings.Save(a.cfgPath); err != nil {
		slog.Warn("failed to save settings", "error", err)
	}
	fmt.Printf("server: %s (%s)\n", host.Label(), host.BaseURL())
}

// recover swallows request failures, which stay visible through the
// render loop; anything else is fatal.
func (a *app) recover(err error) error {
	if err == nil {
		return nil
	}
	var reqErr *launcher.RequestError
	if errors.As(err, &reqErr) {
		return nil
	}
	return err
}
