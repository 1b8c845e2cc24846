package main

import (
	"os"

	"github.com/CPU-commits/Intranet_BXams/logger"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func newApp() *cli.App {
	return &cli.App{
		Name:  "xams-admin",
		Usage: "bootstrap and maintenance of the exam service",
		Commands: []*cli.Command{
			{
				Name:   "init-db",
				Usage:  "create the collections with their validators and indexes",
				Action: initDB,
			},
			{
				Name:  "create-instructor",
				Usage: "create an instructor account, the password is prompted",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "username", Required: true},
					&cli.StringFlag{Name: "first-name", Required: true},
					&cli.StringFlag{Name: "last-name", Required: true},
					&cli.StringFlag{Name: "title"},
				},
				Action: createInstructor,
			},
			{
				Name:   "reindex",
				Usage:  "rebuild the search indices from the database",
				Action: reindex,
			},
			{
				Name:  "deactivate-user",
				Usage: "disable the login of a user",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Required: true},
				},
				Action: deactivateUser,
			},
		},
	}
}

func main() {
	defer logger.Sync()
	if err := newApp().Run(os.Args); err != nil {
		logger.Get().Fatal("admin", zap.Error(err))
	}
}
