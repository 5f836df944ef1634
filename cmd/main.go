package main

import (
	"context"
	"fmt"
	"os"

	"tradejournal/cmd/reconcilejob"
	"tradejournal/src/database"
	"tradejournal/src/reconciler"
	"tradejournal/src/repository"
	"tradejournal/src/server"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

var Version string

func main() {
	app := cli.NewApp()
	app.Name = "TradeJournal CMD"
	app.Usage = "The trade journal command line interface"

	app.Commands = []cli.Command{
		serveCMD,
		reconcileCMD,
	}

	if err := app.Run(os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var (
	serveCMD = cli.Command{
		Name:        "serve",
		Usage:       "run the journal API",
		Action:      serveAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Run the journal HTTP API with the reconciliation worker`,
	}
	reconcileCMD = cli.Command{
		Name:        "reconcile",
		Usage:       "recompute account balances",
		Action:      reconcileAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Run a one-shot balance reconciliation pass`,
	}
)

func serveAction(_ *cli.Context) error {

	logrus.Info("Starting serve CMD")

	if err := database.InitMainDB(); err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}

	rec := reconciler.New(repository.NewTradeRepository(), repository.NewAccountRepository())
	worker := reconciler.NewWorker(rec, 0)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go worker.Run(ctx)

	server.StartServer(server.GetConfig().Port, worker)
	return nil
}

func reconcileAction(_ *cli.Context) error {

	logrus.Info("Starting reconcile CMD")
	if err := database.InitMainDB(); err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}

	job := &reconcilejob.ReconcileJob{
		Log: logrus.WithField("cmd", "reconcile"),
		DB:  database.MainDB,
	}

	err := job.Start()
	if err != nil {
		logrus.WithError(err).Error("Starting reconcile CMD")
		return err
	}

	return nil
}
