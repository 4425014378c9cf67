package crawler

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/vplan-fr/stundenplan24-wrapper/pkg/client"
	"github.com/vplan-fr/stundenplan24-wrapper/pkg/endpoints"
	"github.com/vplan-fr/stundenplan24-wrapper/pkg/hosting"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "crawler",
		Usage: "Keep a local history of plan revisions",
		Subcommands: []*cli.Command{
			{
				Name:  "update",
				Usage: "Fetch every day in the crawl window once",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "hosting",
						Usage:    "Path to the hosting YAML file",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "cache-dir",
						Usage: "Directory for stored plan revisions",
						Value: "plan-cache",
					},
					&cli.StringFlag{
						Name:  "endpoint",
						Usage: "Endpoint key to crawl",
						Value: string(endpoints.KeySubstitutionStudent),
					},
					&cli.IntFlag{
						Name:  "look-back",
						Usage: "Days before today to crawl",
						Value: 10,
					},
					&cli.IntFlag{
						Name:  "look-forward",
						Usage: "Days after today to crawl",
						Value: 10,
					},
					&cli.StringFlag{
						Name:  "repeat-every",
						Usage: "Repeat the crawl every X duration",
					},
				},
				Action: func(c *cli.Context) error {
					config, err := hosting.Load(c.String("hosting"))
					if err != nil {
						return err
					}

					planClient := client.New(
						endpoints.DefaultCatalog(),
						client.NewHTTPTransport(),
						config.BaseURL,
						client.Credentials{
							SchoolNumber: config.SchoolNumber,
							Username:     config.Username,
							Password:     config.Password,
							SessionToken: config.SessionToken,
						},
					)

					crawl := New(planClient, &RevisionStore{Root: c.String("cache-dir")}, endpoints.Key(c.String("endpoint")))
					crawl.LookBack = c.Int("look-back")
					crawl.LookForward = c.Int("look-forward")

					repeatEvery := c.String("repeat-every")
					repeat := repeatEvery != ""
					var repeatDuration time.Duration
					if repeat {
						repeatDuration, err = time.ParseDuration(repeatEvery)
						if err != nil {
							return err
						}
					}

					for {
						startTime := time.Now()

						if err := crawl.UpdateSpan(context.Background(), time.Now()); err != nil {
							return err
						}

						if !repeat {
							break
						}

						executionDuration := time.Since(startTime)
						log.Info().Msgf("Crawl took %s", executionDuration.String())

						waitTime := repeatDuration - executionDuration
						if waitTime.Seconds() > 0 {
							time.Sleep(waitTime)
						}
					}

					return nil
				},
			},
		},
	}
}
