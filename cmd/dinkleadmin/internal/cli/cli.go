package cli

import "flag"

var DatabasePath = flag.String("database", "dinklebot.sqlite", "Path to the SQLite database file")

func init() {
	flag.Usage = func() {
		out := flag.CommandLine.Output()
		_, _ = out.Write([]byte(`usage: dinkleadmin [-database path] <verb> [args]

verbs:
  player <psn-id> [telegram-id]   add a player, optionally binding a telegram user
  event-type <name>               add an event type
  secret <name> <value>           store a secret such as google_search

`))
		flag.PrintDefaults()
	}
}
