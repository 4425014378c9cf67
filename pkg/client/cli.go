package client

import (
	"context"
	"time"

	"github.com/kr/pretty"
	"github.com/urfave/cli/v2"

	"github.com/vplan-fr/stundenplan24-wrapper/pkg/endpoints"
	"github.com/vplan-fr/stundenplan24-wrapper/pkg/hosting"
	"github.com/vplan-fr/stundenplan24-wrapper/pkg/plan"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "plan",
		Usage: "Fetch & normalize plans from stundenplan24.de",
		Subcommands: []*cli.Command{
			{
				Name:  "fetch",
				Usage: "Fetch one plan document and dump the normalized result",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "hosting",
						Usage:    "Path to the hosting YAML file",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "endpoint",
						Usage: "Endpoint key to fetch",
						Value: string(endpoints.KeySubstitutionStudent),
					},
					&cli.StringFlag{
						Name:  "date",
						Usage: "Plan date (2006-01-02), omit for the current plan",
					},
				},
				Action: func(c *cli.Context) error {
					planClient, err := fromHostingFile(c.String("hosting"))
					if err != nil {
						return err
					}

					options := FetchOptions{}
					if c.String("date") != "" {
						options.Date, err = time.Parse("2006-01-02", c.String("date"))
						if err != nil {
							return err
						}
					}

					document, err := planClient.Fetch(context.Background(), endpoints.Key(c.String("endpoint")), options)
					if err != nil {
						return err
					}

					pretty.Println(document)

					return nil
				},
			},
			{
				Name:  "dates",
				Usage: "List the plan files the provider currently serves",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "hosting",
						Usage:    "Path to the hosting YAML file",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "view",
						Usage: "student or teacher",
						Value: string(plan.ViewStudent),
					},
				},
				Action: func(c *cli.Context) error {
					planClient, err := fromHostingFile(c.String("hosting"))
					if err != nil {
						return err
					}

					files, err := planClient.AvailableFiles(context.Background(), plan.View(c.String("view")))
					if err != nil {
						return err
					}

					pretty.Println(files)

					return nil
				},
			},
		},
	}
}

func fromHostingFile(path string) (*Client, error) {
	config, err := hosting.Load(path)
	if err != nil {
		return nil, err
	}

	credentials := Credentials{
		SchoolNumber: config.SchoolNumber,
		Username:     config.Username,
		Password:     config.Password,
		SessionToken: config.SessionToken,
	}

	return New(endpoints.DefaultCatalog(), NewHTTPTransport(), config.BaseURL, credentials), nil
}
