// Command binomtest reports how likely a match result is under the hypothesis
// that both bots are equally strong.
//
// Without flags it prompts for the number of games and the games won. With
// -bot it reads the tally of that bot from the configured ledger.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/schnapsen-lab/mlbot/service/internal/config"
	"github.com/schnapsen-lab/mlbot/service/internal/ledger"
	"github.com/schnapsen-lab/mlbot/service/internal/stats"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		logrus.Fatal(err)
	}
}

// tallyFunc looks up a bot's record.
type tallyFunc func(ctx context.Context, bot string) (ledger.Tally, error)

func run(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	return runWith(ctx, args, in, out, ledgerTally)
}

func runWith(ctx context.Context, args []string, in io.Reader, out io.Writer, tally tallyFunc) error {
	fs := flag.NewFlagSet("binomtest", flag.ContinueOnError)
	fs.SetOutput(out)
	games := fs.Int("games", -1, "total number of games")
	won := fs.Int("won", -1, "games won by the evaluated player")
	bot := fs.String("bot", "", "read games and wins of this bot from the ledger")
	alpha := fs.Float64("alpha", 0.05, "significance level")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch {
	case *bot != "":
		t, err := tally(ctx, *bot)
		if err != nil {
			return err
		}
		*games, *won = t.Games, t.Won
		fmt.Fprintf(out, "%s: %d of %d games won\n", t.Bot, t.Won, t.Games)
	case *games < 0 || *won < 0:
		r := bufio.NewReader(in)
		var err error
		if *games < 0 {
			if *games, err = prompt(r, out, "insert the total number of games: "); err != nil {
				return err
			}
		}
		if *won < 0 {
			if *won, err = prompt(r, out, "Insert the number of games won by the evaluated player: "); err != nil {
				return err
			}
		}
	}

	ok, p, err := stats.Significant(*won, *games, *alpha)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "The probability that the result happened by chance is: %s\n", strconv.FormatFloat(p, 'g', -1, 64))
	if ok {
		fmt.Fprintf(out, "significant at %g\n", *alpha)
	} else {
		fmt.Fprintf(out, "not significant at %g\n", *alpha)
	}
	return nil
}

func prompt(r *bufio.Reader, out io.Writer, msg string) (int, error) {
	fmt.Fprint(out, msg)
	line, err := r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return 0, fmt.Errorf("read answer: %w", err)
	}
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", strings.TrimSpace(line))
	}
	return n, nil
}

func ledgerTally(ctx context.Context, bot string) (ledger.Tally, error) {
	cfg, err := config.Load()
	if err != nil {
		return ledger.Tally{}, err
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	l, err := ledger.Open(ctx, ledger.Options{
		Backend:     cfg.Ledger,
		DatabaseURL: cfg.DatabaseURL,
		RedisAddr:   cfg.RedisAddr,
	})
	if err != nil {
		return ledger.Tally{}, err
	}
	defer l.Close()
	return l.Tally(ctx, bot)
}
