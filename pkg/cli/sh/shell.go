// Package sh provides the interactive planner shell.
package sh

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/velplan/pkg/comm/mqtt"
	"github.com/robotalks/velplan/pkg/planner"
)

// Config provides options of the shell.
type Config struct {
	// URL is the transport URL of the node to connect.
	URL string
	// NodeID addresses the node through a broker.
	NodeID string
}

var defaultConfig = Config{
	URL: "mqtt://localhost:1883/velplan/",
}

func init() {
	if val := os.Getenv("VELPLAN_URL"); val != "" {
		defaultConfig.URL = val
	}
	if val := os.Getenv("VELPLAN_NODE_ID"); val != "" {
		defaultConfig.NodeID = val
	}
}

// SetupFlags sets command line flags, including the planner ones.
func SetupFlags() {
	flag.StringVar(&defaultConfig.URL, "url", defaultConfig.URL, "Node transport URL.")
	flag.StringVar(&defaultConfig.NodeID, "node", defaultConfig.NodeID, "Node ID to connect, empty for local planning.")
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
	planner.SetupFlags()
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool
	AutoConnect bool

	Shell   *ishell.Shell
	Config  *Config
	Session *Session
}

const (
	shellKey    = "$shell"
	localPrompt = "[local] > "
)

var (
	// flags

	evalOnly   bool
	outputJSON bool

	// commands
	commands = []*ishell.Cmd{
		&DiscoverCmd,
		&ConnectCmd,
		&DisconnectCmd,
	}
)

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(conf *Config, session *Session) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell:   ishell.New(),
		Config:  conf,
		Session: session,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(localPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// Context creates the context bounding a single request.
func (s *Shell) Context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), DefaultTimeout)
}

// Print prints v as JSON when OutputJSON is set, otherwise text.
func (s *Shell) Print(c *ishell.Context, v interface{}, text string) {
	if !s.OutputJSON {
		c.Println(text)
		return
	}
	out, err := json.Marshal(v)
	if err != nil {
		c.Err(err)
		return
	}
	c.Println(string(out))
}

// WithAutoConnect sets AutoConnect.
func (s *Shell) WithAutoConnect(en bool) *Shell {
	s.AutoConnect = en
	return s
}

// Connect connects a node.
func (s *Shell) Connect(url, nodeID string) error {
	ctx, cancel := s.Context()
	defer cancel()
	if err := s.Session.Connect(ctx, url, nodeID); err != nil {
		return err
	}
	s.Shell.SetPrompt(fmt.Sprintf("%s > ", s.Session.Service.Name()))
	return nil
}

// Disconnect disconnects current node.
func (s *Shell) Disconnect() {
	s.Session.Disconnect()
	s.Shell.SetPrompt(localPrompt)
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if s.AutoConnect && s.Config.NodeID != "" {
		if s.Interactive {
			s.Shell.Printf("Connecting %s ...\n", s.Config.NodeID)
		}
		if err := s.Connect(s.Config.URL, s.Config.NodeID); err != nil {
			log.Fatalf("connect %q failed: %v", s.Config.NodeID, err)
		}
	}

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

var (
	// DiscoverCmd lists nodes online on the broker.
	DiscoverCmd = ishell.Cmd{
		Name:    "discover",
		Aliases: []string{"list", "l"},
		Help:    "[BROKER-URL]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			url := s.Config.URL
			if len(c.Args) > 0 {
				url = c.Args[0]
			}
			ctx, cancel := s.Context()
			defer cancel()
			infoList, err := mqtt.Discover(ctx, url, mqtt.DefaultDiscoverTimeout)
			if err != nil {
				c.Err(err)
				return
			}
			if s.OutputJSON {
				if len(infoList) == 0 {
					// in case infoList is nil, make it empty slice.
					infoList = []mqtt.NodeInfo{}
				}
				s.Print(c, infoList, "")
				return
			}
			if len(infoList) == 0 {
				c.Println("No nodes found")
				return
			}
			for _, info := range infoList {
				c.Printf("%s %s\n", info.ID, info.Version)
			}
		},
	}

	// ConnectCmd connects a node.
	ConnectCmd = ishell.Cmd{
		Name:    "connect",
		Aliases: []string{"c"},
		Help:    "[URL] NODE-ID",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			url, nodeID := s.Config.URL, s.Config.NodeID
			switch len(c.Args) {
			case 0:
			case 1:
				nodeID = c.Args[0]
			default:
				url, nodeID = c.Args[0], c.Args[1]
			}
			if err := s.Connect(url, nodeID); err != nil {
				c.Err(err)
			}
		},
	}

	// DisconnectCmd disconnects current node.
	DisconnectCmd = ishell.Cmd{
		Name:    "disconnect",
		Aliases: []string{"d"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Disconnect()
		},
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	session, err := NewSession(*planner.Default())
	if err != nil {
		log.Fatalln(err)
	}
	New(NewConfig(), session).WithAutoConnect(true).Run(flag.Args()...)
}

