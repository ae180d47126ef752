package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/hamgrid/internal/adapter/mapbox"
	"github.com/couchcryptid/hamgrid/internal/adapter/shapefile"
	"github.com/couchcryptid/hamgrid/internal/domain"
	"github.com/couchcryptid/hamgrid/internal/geo"
	"github.com/couchcryptid/hamgrid/internal/maidenhead"
)

type decoded struct {
	Locator   string                 `json:"locator"`
	Precision string                 `json:"precision"`
	BBox      maidenhead.BoundingBox `json:"bbox"`
	Lon       float64                `json:"lon"`
	Lat       float64                `json:"lat"`
}

func decodeCommand(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "decode LOCATOR...",
		Short: "Print the bounding box and centre of locators",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := make([]decoded, 0, len(args))
			for _, loc := range args {
				box, ok := maidenhead.Decode(loc)
				if !ok {
					return fmt.Errorf("decode %q: %w", loc, maidenhead.ErrInvalidLocator)
				}
				p, _ := maidenhead.PrecisionOf(loc)
				lon, lat := box.Center()
				out = append(out, decoded{Locator: strings.ToUpper(strings.TrimSpace(loc)), Precision: p.String(), BBox: box, Lon: lon, Lat: lat})
			}

			w := cmd.OutOrStdout()
			if s.JSON {
				return printJSON(w, out)
			}
			for _, d := range out {
				fmt.Fprintf(w, "%-6s %-9s lon %.4f..%.4f lat %.4f..%.4f centre %.4f,%.4f\n",
					d.Locator, d.Precision, d.BBox.LonMin, d.BBox.LonMax, d.BBox.LatMin, d.BBox.LatMax, d.Lon, d.Lat)
			}
			return nil
		},
	}
}

func encodeCommand(s *settings) *cobra.Command {
	var lon, lat float64
	var precision string

	cmd := &cobra.Command{
		Use:   "encode --lon LON --lat LAT",
		Short: "Convert a coordinate to a locator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := maidenhead.ParseLevel(precision)
			if err != nil {
				return err
			}
			loc, ok := maidenhead.Encode(lon, lat, p)
			if !ok {
				return fmt.Errorf("encode %g,%g: %w", lon, lat, maidenhead.ErrInvalidLocator)
			}
			if s.JSON {
				return printJSON(cmd.OutOrStdout(), map[string]string{"locator": loc})
			}
			fmt.Fprintln(cmd.OutOrStdout(), loc)
			return nil
		},
	}
	cmd.Flags().Float64Var(&lon, "lon", 0, "longitude in degrees")
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude in degrees")
	cmd.Flags().StringVarP(&precision, "precision", "p", "subsquare", "field, square or subsquare")
	_ = cmd.MarkFlagRequired("lon")
	_ = cmd.MarkFlagRequired("lat")
	return cmd
}

func gridCommand(s *settings) *cobra.Command {
	var bbox, level, shpPath string
	var zoom float64

	cmd := &cobra.Command{
		Use:   "grid --bbox LONMIN,LATMIN,LONMAX,LATMAX",
		Short: "List or export the locator grid covering a viewport",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			box, err := maidenhead.ParseBBox(bbox)
			if err != nil {
				return err
			}
			p := maidenhead.Square
			switch {
			case level != "":
				if p, err = maidenhead.ParseLevel(level); err != nil {
					return err
				}
			case cmd.Flags().Changed("zoom"):
				p = maidenhead.LevelForZoom(zoom)
			}

			cells := maidenhead.BuildGrid(box, p)
			effective := maidenhead.EffectiveLevel(box, p)
			if effective != p {
				s.logger.Warn("grid level demoted", "requested", p.String(), "rendered", effective.String())
			}

			w := cmd.OutOrStdout()
			if shpPath != "" {
				if err := shapefile.WriteGrid(shpPath, cells); err != nil {
					return err
				}
				fmt.Fprintf(w, "wrote %d %s cells to %s\n", len(cells), effective, shpPath)
				return nil
			}
			if s.JSON {
				return printJSON(w, cells)
			}
			for _, c := range cells {
				fmt.Fprintln(w, c.Label)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&bbox, "bbox", "", "viewport as lonMin,latMin,lonMax,latMax")
	cmd.Flags().StringVar(&level, "level", "", "field, square or subsquare")
	cmd.Flags().Float64Var(&zoom, "zoom", 0, "web map zoom; picks the level when --level is not set")
	cmd.Flags().StringVar(&shpPath, "shp", "", "write the grid as a polygon shapefile")
	_ = cmd.MarkFlagRequired("bbox")
	return cmd
}

type dxccResult struct {
	Call       string `json:"call"`
	Prefix     string `json:"prefix,omitempty"`
	EntityCode int    `json:"entity_code,omitempty"`
	Name       string `json:"name,omitempty"`
	Found      bool   `json:"found"`
}

func dxccCommand(s *settings) *cobra.Command {
	var includeDeleted bool

	cmd := &cobra.Command{
		Use:   "dxcc CALL...",
		Short: "Resolve callsigns to DXCC entities",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver, err := s.resolver(true)
			if err != nil {
				return err
			}

			out := make([]dxccResult, 0, len(args))
			for _, call := range args {
				call = strings.ToUpper(strings.TrimSpace(call))
				r := dxccResult{Call: call}
				if m, ok := resolver.Resolve(call, includeDeleted); ok {
					r = dxccResult{Call: call, Prefix: m.Prefix, EntityCode: m.EntityCode, Name: m.Name, Found: true}
				}
				out = append(out, r)
			}

			w := cmd.OutOrStdout()
			if s.JSON {
				return printJSON(w, out)
			}
			for _, r := range out {
				if !r.Found {
					fmt.Fprintf(w, "%-12s unknown\n", r.Call)
					continue
				}
				fmt.Fprintf(w, "%-12s %-5s %4d %s\n", r.Call, r.Prefix, r.EntityCode, r.Name)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&includeDeleted, "include-deleted", false, "also match deleted entities")
	return cmd
}

func qrbCommand(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "qrb FROM TO",
		Short: "Great-circle distance and bearing between two locators",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			km, bearing, ok := geo.LocatorDistance(args[0], args[1])
			if !ok {
				return fmt.Errorf("qrb %q to %q: %w", args[0], args[1], maidenhead.ErrInvalidLocator)
			}
			w := cmd.OutOrStdout()
			if s.JSON {
				return printJSON(w, map[string]float64{"km": km, "bearing": bearing})
			}
			fmt.Fprintf(w, "%.1f km, bearing %.0f°\n", km, bearing)
			return nil
		},
	}
}

func importCommand(s *settings) *cobra.Command {
	var format, shpPath string

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Parse and enrich an EDI, ADIF or Cabrillo log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			resolver, err := s.resolver(false)
			if err != nil {
				return err
			}

			headers := map[string]string{domain.HeaderFilename: filepath.Base(args[0])}
			if format != "" {
				headers[domain.HeaderFormat] = format
			}
			res, err := domain.ParseRawLog(domain.RawEvent{Value: data, Headers: headers})
			if err != nil {
				return err
			}
			importID := domain.ImportID(data)
			events := domain.EnrichResult(res, importID, s.Station, resolver)
			s.logger.Info("log imported", "import_id", importID, "format", res.Format, "qsos", len(events), "skipped", res.Skipped)

			w := cmd.OutOrStdout()
			if shpPath != "" {
				n, err := shapefile.WriteQsos(shpPath, events)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "wrote %d contacts to %s\n", n, shpPath)
				return nil
			}
			if s.JSON {
				return printJSON(w, events)
			}

			fmt.Fprintf(w, "%s: %s, %d contacts, %d skipped\n", filepath.Base(args[0]), res.Format, len(events), res.Skipped)
			for i := range events {
				e := &events[i]
				entity, dist := "", ""
				if e.Entity != nil {
					entity = e.Entity.Name
				}
				if e.DistanceKm != nil {
					dist = strconv.FormatFloat(*e.DistanceKm, 'f', 0, 64) + " km"
				}
				fmt.Fprintf(w, "%s %s %-12s %-6s %-4s %8s %s\n", e.Date, e.Time, e.Call, e.Locator, e.Mode, dist, entity)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "edi, adif or cabrillo; detected when empty")
	cmd.Flags().StringVar(&shpPath, "shp", "", "write contacts as a point shapefile")
	return cmd
}

func targetsCommand(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "targets [FILE|-]",
		Short: "Check a target list of six-character locators",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}
			data, err := io.ReadAll(r)
			if err != nil {
				return err
			}

			t := maidenhead.ParseTargets(string(data))
			w := cmd.OutOrStdout()
			if s.JSON {
				return printJSON(w, t)
			}
			for _, loc := range t.Valid {
				fmt.Fprintln(w, loc)
			}
			for _, loc := range t.Invalid {
				fmt.Fprintf(w, "%s invalid\n", loc)
			}
			return nil
		},
	}
}

func locateCommand(s *settings) *cobra.Command {
	var precision string

	cmd := &cobra.Command{
		Use:   "locate PLACE",
		Short: "Find the locator of a place name via Mapbox",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if s.MapboxToken == "" {
				return errors.New("locate needs a Mapbox token (--mapbox-token or HAMGRID_MAPBOX_TOKEN)")
			}
			p, err := maidenhead.ParseLevel(precision)
			if err != nil {
				return err
			}
			client := mapbox.NewClient(s.MapboxToken, s.MapboxTimeout, nil, s.logger)
			return runLocate(cmd.Context(), cmd.OutOrStdout(), client, strings.Join(args, " "), p, s.JSON)
		},
	}
	cmd.Flags().StringVarP(&precision, "precision", "p", "subsquare", "field, square or subsquare")
	return cmd
}

func runLocate(ctx context.Context, w io.Writer, geocoder domain.Geocoder, query string, p maidenhead.Precision, asJSON bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	place, err := domain.LocatePlace(ctx, geocoder, query, p)
	if err != nil {
		return err
	}
	if asJSON {
		return printJSON(w, place)
	}
	fmt.Fprintf(w, "%s %s\n", place.Locator, place.Place.FormattedAddress)
	return nil
}

