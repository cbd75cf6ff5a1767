package cmd

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	easy "github.com/t-tomalak/logrus-easy-formatter"
)

// App builds the root command: a file runner when given a path or fed
// a pipe, a readline REPL when stdin is a terminal. Flag names and
// logging setup mirror the teacher's own cmd.go precisely.
func App() (app *cobra.Command) {
	defaults := loadConfig()

	app = &cobra.Command{
		Use:   "loxc [script]",
		Short: "Compile and run a script",
		Args:  cobra.MaximumNArgs(1),
	}

	app.Flags().SortFlags = true
	verbosity := app.Flags().StringP("verbosity", "v", defaults.Verbosity, "Logging verbosity")
	stats := app.Flags().Bool("stats", defaults.Stats, "Report compiled chunk size after each run")

	app.RunE = func(_ *cobra.Command, args []string) error {
		lvl, err := logrus.ParseLevel(*verbosity)
		if err != nil {
			lvl, _ = logrus.ParseLevel(defaults.Verbosity)
		}
		logrus.SetLevel(lvl)
		logrus.SetFormatter(&easy.Formatter{LogFormat: "//DBG// %msg%\n"})

		if len(args) == 1 {
			return runFile(args[0], *stats)
		}
		if isatty.IsTerminal(os.Stdin.Fd()) {
			return repl(*stats)
		}
		return runReader(os.Stdin, *stats)
	}
	return
}
