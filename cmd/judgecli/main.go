package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/programme-lv/dsalearn/content"
	"github.com/programme-lv/dsalearn/judge"
	"github.com/urfave/cli/v3"
)

var errNotAllPassed = errors.New("not all test cases passed")

func main() {
	app := newApp(os.Stdout, os.Stderr)
	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, errNotAllPassed) {
			os.Exit(1)
		}
		color.New(color.FgRed).Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}

func newApp(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "judgecli",
		Usage:     "judge python solutions against the practice problems",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "python",
				Usage:   "python interpreter",
				Value:   judge.DefaultPythonBin,
				Sources: cli.EnvVars("PYTHON_BIN"),
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "wall clock limit per execution",
				Value: judge.DefaultTimeout,
			},
			&cli.StringFlag{
				Name:    "content-dir",
				Usage:   "directory with topics.toml and problems.toml, embedded content when empty",
				Sources: cli.EnvVars("CONTENT_DIR"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "problems",
				Usage:  "list practice problems",
				Action: listProblems,
			},
			{
				Name:      "submit",
				Usage:     "run a solution against every test case of a problem",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "problem",
						Aliases:  []string{"p"},
						Usage:    "problem id",
						Required: true,
					},
				},
				Action: submit,
			},
			{
				Name:      "run",
				Usage:     "execute a script without test cases",
				ArgsUsage: "FILE",
				Action:    run,
			},
		},
	}
}

func loadStore(cmd *cli.Command) (*content.Store, error) {
	if dir := cmd.String("content-dir"); dir != "" {
		return content.LoadDir(dir)
	}
	return content.Embedded()
}

func newJudge(cmd *cli.Command, store *content.Store) *judge.Judge {
	return judge.NewJudge(store, judge.Params{
		PythonBin: cmd.String("python"),
		Timeout:   cmd.Duration("timeout"),
	})
}

func readSource(cmd *cli.Command) (string, error) {
	if cmd.NArg() != 1 {
		return "", fmt.Errorf("expected exactly one source file, got %d", cmd.NArg())
	}
	b, err := os.ReadFile(cmd.Args().First())
	if err != nil {
		return "", fmt.Errorf("failed to read source: %w", err)
	}
	return string(b), nil
}

func listProblems(ctx context.Context, cmd *cli.Command) error {
	store, err := loadStore(cmd)
	if err != nil {
		return err
	}
	for _, p := range store.ListProblems() {
		fmt.Fprintf(cmd.Root().Writer, "%-22s %-8s %s\n", p.ID, p.Difficulty, p.Title)
	}
	return nil
}

func submit(ctx context.Context, cmd *cli.Command) error {
	code, err := readSource(cmd)
	if err != nil {
		return err
	}
	store, err := loadStore(cmd)
	if err != nil {
		return err
	}

	start := time.Now()
	report, err := newJudge(cmd, store).RunSubmission(ctx, code, cmd.String("problem"))
	if err != nil {
		return err
	}

	printReport(cmd.Root().Writer, report, time.Since(start))
	if !report.AllPassed {
		return errNotAllPassed
	}
	return nil
}

func run(ctx context.Context, cmd *cli.Command) error {
	code, err := readSource(cmd)
	if err != nil {
		return err
	}
	store, err := loadStore(cmd)
	if err != nil {
		return err
	}

	res, err := newJudge(cmd, store).RunRaw(ctx, code)
	if err != nil {
		return err
	}

	root := cmd.Root()
	fmt.Fprint(root.Writer, res.Stdout)
	if res.Stderr != "" {
		color.New(color.FgRed).Fprint(root.ErrWriter, res.Stderr)
	}
	color.New(color.Faint).Fprintf(root.Writer, "execution time: %s\n", res.ExecutionTime())
	return nil
}
