// Package cli implements the hamgrid command line tool: locator conversion,
// grid export, DXCC lookups, distance and log import without running the
// service.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/couchcryptid/hamgrid/internal/config"
	"github.com/couchcryptid/hamgrid/internal/domain"
	"github.com/couchcryptid/hamgrid/internal/dxcc"
	"github.com/couchcryptid/hamgrid/internal/observability"
)

// envPrefix prefixes every environment variable the CLI reads, e.g.
// HAMGRID_DXCC_TABLE.
const envPrefix = "HAMGRID"

// settings are the global options after flags, env and config file merge.
type settings struct {
	LogLevel      string
	LogFormat     string
	DXCCTable     string
	StationFile   string
	Station       domain.Station
	MapboxToken   string
	MapboxTimeout time.Duration
	JSON          bool

	logger *slog.Logger
}

// RootCommand builds the hamgrid command tree. Each call uses its own viper
// instance so commands can be built repeatedly in tests.
func RootCommand() *cobra.Command {
	v := viper.New()
	s := &settings{}

	rootCmd := &cobra.Command{
		Use:           "hamgrid",
		Short:         "Maidenhead locators, DXCC lookups and contest log import",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	if err := setupFlags(rootCmd, v); err != nil {
		panic(err)
	}

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		return s.load(cmd, v)
	}

	rootCmd.AddCommand(
		decodeCommand(s),
		encodeCommand(s),
		gridCommand(s),
		dxccCommand(s),
		qrbCommand(s),
		importCommand(s),
		targetsCommand(s),
		locateCommand(s),
	)
	return rootCmd
}

func setupFlags(rootCmd *cobra.Command, v *viper.Viper) error {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (TOML, YAML or JSON)")
	flags.String("log-level", "warn", "log level: debug, info, warn, error")
	flags.String("log-format", "text", "log format: text or json")
	flags.String("dxcc-table", "data/dxcc.json", "path to the DXCC entity table")
	flags.String("station-file", "", "TOML station profile with [station] callsign and gridsquare")
	flags.String("station-call", "", "home callsign used when a log has none")
	flags.String("station-locator", "", "home locator used when a log has none")
	flags.String("mapbox-token", "", "Mapbox access token for place lookups")
	flags.Duration("mapbox-timeout", 5*time.Second, "Mapbox request timeout")
	flags.Bool("json", false, "print JSON instead of text")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flags); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}
	return nil
}

// load merges the config file, environment and flags; flags win.
func (s *settings) load(cmd *cobra.Command, v *viper.Viper) error {
	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
	}

	s.LogLevel = v.GetString("log-level")
	s.LogFormat = v.GetString("log-format")
	s.DXCCTable = v.GetString("dxcc-table")
	s.StationFile = v.GetString("station-file")
	s.MapboxToken = v.GetString("mapbox-token")
	s.MapboxTimeout = v.GetDuration("mapbox-timeout")
	s.JSON = v.GetBool("json")

	if s.StationFile != "" {
		station, err := config.LoadStationProfile(s.StationFile)
		if err != nil {
			return err
		}
		s.Station = station
	}
	if call := v.GetString("station-call"); call != "" {
		s.Station.Callsign = call
	}
	if loc := v.GetString("station-locator"); loc != "" {
		s.Station.Locator = loc
	}
	s.Station.Callsign = strings.ToUpper(strings.TrimSpace(s.Station.Callsign))
	s.Station.Locator = strings.ToUpper(strings.TrimSpace(s.Station.Locator))

	s.logger = observability.NewCLILogger(cmd.ErrOrStderr(), s.LogLevel, s.LogFormat)
	return nil
}

// resolver loads the DXCC table. When required is false a missing table is
// logged and lookups are skipped.
func (s *settings) resolver(required bool) (dxcc.Resolver, error) {
	entities, err := dxcc.LoadTableFile(s.DXCCTable)
	if err != nil {
		if required {
			return nil, err
		}
		s.logger.Warn("dxcc table not loaded, entity lookups disabled", "path", s.DXCCTable, "error", err)
		return nil, nil
	}
	index := dxcc.BuildIndex(entities)
	s.logger.Debug("dxcc table loaded", "path", s.DXCCTable, "prefixes", index.Len())
	return index, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
