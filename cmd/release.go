package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/voltlabs/cebridge/internal/config"
	"github.com/voltlabs/cebridge/internal/db"
	"github.com/voltlabs/cebridge/internal/registry"
	"github.com/voltlabs/cebridge/internal/release"
)

var releaseCmd = &cobra.Command{
	Use:   "release",
	Short: "Publish and inspect releases of the integration package",
}

var releasePublishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish a release for the current manifest version",
	Long:  "Publish a release tagged v<version> for the current manifest version,\nwith auto-generated notes, marked latest. Fails when the tag already exists.\nExample:\n  cebridge release publish --release-config release.yaml",
	RunE: func(cmd *cobra.Command, args []string) error {
		pub, err := publisherFromFlags(cmd)
		if err != nil {
			return err
		}
		defer pub.close()

		res, err := pub.publisher.Publish(cmd.Context())
		if err != nil {
			return err
		}
		for _, line := range res.Outputs {
			fmt.Println(line)
		}
		fmt.Printf("published %s", res.Tag)
		if res.URL != "" {
			fmt.Printf(" (%s)", res.URL)
		}
		fmt.Println()
		return nil
	},
}

var releaseWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the manifest and publish on version changes",
	Long:  "Watch the manifest file and publish a release whenever its version\nchanges to one that has not been released yet. Changes to other files\nare ignored",
	RunE: func(cmd *cobra.Command, args []string) error {
		pub, err := publisherFromFlags(cmd)
		if err != nil {
			return err
		}
		defer pub.close()

		w := &release.Watcher{Publisher: pub.publisher, Log: pub.log}
		err = w.Run(cmd.Context())
		if cmd.Context().Err() != nil {
			return nil
		}
		return err
	},
}

var releaseListCmd = &cobra.Command{
	Use:   "list",
	Short: "List published releases",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbConn, err := db.InitDB()
		if err != nil {
			return err
		}
		defer func() { _ = dbConn.Close() }()

		r := registry.NewRepository(dbConn)
		releases, err := r.ListReleases()
		if err != nil {
			return err
		}
		if len(releases) == 0 {
			fmt.Println("no releases recorded")
			return nil
		}
		for i, rel := range releases {
			marker := ""
			if i == 0 {
				marker = "\t(latest)"
			}
			fmt.Printf("%s\t%s%s\n", rel.Tag, rel.CreatedAt, marker)
		}
		return nil
	},
}

// boundPublisher bundles a publisher with the resources it borrows.
type boundPublisher struct {
	publisher *release.Publisher
	log       *slog.Logger
	dbConn    interface{ Close() error }
}

func (b *boundPublisher) close() {
	_ = b.dbConn.Close()
}

func publisherFromFlags(cmd *cobra.Command) (*boundPublisher, error) {
	cfgPath, _ := cmd.Flags().GetString("release-config")
	if !cmd.Flags().Changed("release-config") {
		if p := viper.GetString(config.KeyReleaseFile); p != "" {
			cfgPath = p
		}
	}
	cfg, err := release.LoadConfig(cfgPath)
	if err != nil {
		return nil, err
	}
	if p, _ := cmd.Flags().GetString("manifest"); p != "" {
		cfg.ManifestPath = p
	}

	dbConn, err := db.InitDB()
	if err != nil {
		return nil, err
	}

	gh := release.NewGitHubClient(githubToken())
	if u, _ := cmd.Flags().GetString("api-url"); u != "" {
		gh.BaseURL = u
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	return &boundPublisher{
		publisher: &release.Publisher{
			Config: cfg,
			GitHub: gh,
			Repo:   registry.NewRepository(dbConn),
			Log:    log,
		},
		log:    log,
		dbConn: dbConn,
	}, nil
}

func githubToken() string {
	if t := os.Getenv("CEBRIDGE_GITHUB_TOKEN"); t != "" {
		return t
	}
	return os.Getenv("GITHUB_TOKEN")
}

func init() {
	for _, c := range []*cobra.Command{releasePublishCmd, releaseWatchCmd} {
		c.Flags().String("release-config", "release.yaml", "Release config file")
		c.Flags().String("manifest", "", "Manifest path (overrides release config)")
		c.Flags().String("api-url", "", "Override the release API endpoint")
	}
	releaseCmd.AddCommand(releasePublishCmd)
	releaseCmd.AddCommand(releaseWatchCmd)
	releaseCmd.AddCommand(releaseListCmd)
	rootCmd.AddCommand(releaseCmd)
}
