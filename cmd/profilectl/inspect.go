package main

import (
	"flag"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"

	"github.com/vortex-fintech/go-profile/config"
	"github.com/vortex-fintech/go-profile/foundation/address"
	"github.com/vortex-fintech/go-profile/foundation/email"
	"github.com/vortex-fintech/go-profile/foundation/phone"
)

// parseArgs parses fs allowing the positional value before the flags.
func parseArgs(fs *flag.FlagSet, args []string) (string, error) {
	var pos string
	if len(args) > 0 && len(args[0]) > 0 && args[0][0] != '-' {
		pos, args = args[0], args[1:]
	}
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if pos == "" && fs.NArg() > 0 {
		pos = fs.Arg(0)
	}
	return pos, nil
}

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

// loadRegistry builds the address registry from the config file at path, or
// from defaults and PROFILE_* variables when path is empty.
func loadRegistry(path string, stderr io.Writer) (*address.Registry, bool) {
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return nil, false
	}
	return newRegistry(cfg), true
}

func newRegistry(cfg *config.Config) *address.Registry {
	opts := []address.Option{address.WithFallbackCountry(cfg.Address.FallbackCountry)}
	if cfg.Address.UnicodeNormalization {
		opts = append(opts, address.WithUnicodeNormalization())
	}
	return address.NewDefaultRegistry(opts...)
}

func runEmail(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("email", stderr)
	noDots := fs.Bool("without-dots", false, "drop dots from Gmail local parts")
	noPlus := fs.Bool("without-plus", false, "drop +tags on every domain")
	in, err := parseArgs(fs, args)
	if err != nil {
		return 2
	}
	if in == "" {
		fmt.Fprintln(stderr, "Error: an e-mail address is required")
		return 2
	}

	var opts []email.Option
	if *noDots {
		opts = append(opts, email.WithoutDots())
	}
	if *noPlus {
		opts = append(opts, email.WithoutPlusTag())
	}
	res := email.NormalizeChecked(in, opts...)

	field(stdout, "normalized", res.Value)
	field(stdout, "canonical", email.Canonical(in))
	field(stdout, "well-formed", res.WellFormed)
	field(stdout, "valid", email.IsValid(res.Value))
	if d, ok := email.Domain(in); ok {
		field(stdout, "domain", d)
	}
	if org, ok := email.OrganizationDomain(in); ok {
		field(stdout, "organization", org)
	}
	field(stdout, "provider", email.Provider(in))
	field(stdout, "disposable", email.IsDisposable(in))
	field(stdout, "business", email.IsBusiness(in))
	if s, ok := email.SuggestCorrection(in); ok {
		field(stdout, "did you mean", s)
	}
	return 0
}

func runPhone(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("phone", stderr)
	cc := fs.String("cc", "", "calling code; detected or 60 when empty")
	fallback := fs.String("fallback", "60", "calling code used when none is given or detected")
	region := fs.String("region", "", "also check the number strictly against this region's plan")
	in, err := parseArgs(fs, args)
	if err != nil {
		return 2
	}
	if in == "" {
		fmt.Fprintln(stderr, "Error: a phone number is required")
		return 2
	}

	f := phone.NewFormatter(phone.WithFallbackCallingCode(*fallback))
	res := f.StandardizeChecked(in, *cc)
	forms := f.Forms(in, *cc)

	field(stdout, "calling code", res.CallingCode)
	field(stdout, "detected", res.Detected)
	field(stdout, "e164", forms.E164)
	field(stdout, "national", forms.National)
	field(stdout, "international", forms.International)
	field(stdout, "readable", forms.Readable)
	field(stdout, "valid", res.WellFormed)
	if *region != "" {
		strict, err := phone.ParseStrict(in, *region)
		if err != nil {
			field(stdout, "strict", err)
		} else {
			field(stdout, "strict", strict)
		}
	}
	return 0
}

func runPostcode(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("postcode", stderr)
	country := fs.String("country", "", "country code; the configured fallback when empty")
	cfgPath := fs.String("config", "", "YAML config file")
	in, err := parseArgs(fs, args)
	if err != nil {
		return 2
	}
	if in == "" {
		fmt.Fprintln(stderr, "Error: a postcode is required")
		return 2
	}

	r, ok := loadRegistry(*cfgPath, stderr)
	if !ok {
		return 1
	}
	out := r.StandardizeAddress(address.Components{Postcode: in, CountryCode: *country})
	field(stdout, "country", out.Country)
	field(stdout, "known country", out.KnownCountry)
	field(stdout, "postcode", out.Postcode)
	field(stdout, "valid", r.ValidatePostcodeFor(in, out.Country))
	return 0
}

func runAddress(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("address", stderr)
	var c address.Components
	fs.StringVar(&c.CountryCode, "country", "", "country code; the configured fallback when empty")
	fs.StringVar(&c.Primary, "line1", "", "first address line")
	fs.StringVar(&c.Secondary, "line2", "", "second address line")
	fs.StringVar(&c.City, "city", "", "city")
	fs.StringVar(&c.State, "state", "", "state or province")
	fs.StringVar(&c.Postcode, "postcode", "", "postcode")
	lat := fs.String("lat", "", "latitude")
	lng := fs.String("lng", "", "longitude")
	complete := fs.Bool("require-complete", false, "require line1, city, state and postcode")
	cfgPath := fs.String("config", "", "YAML config file")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	in := address.Input{Components: c}
	for _, p := range []struct {
		raw string
		dst **float64
	}{{*lat, &in.Latitude}, {*lng, &in.Longitude}} {
		if p.raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(p.raw, 64)
		if err != nil {
			fmt.Fprintf(stderr, "Error: bad coordinate %q\n", p.raw)
			return 2
		}
		*p.dst = &v
	}

	r, ok := loadRegistry(*cfgPath, stderr)
	if !ok {
		return 1
	}
	var opts []address.ValidateOption
	if *complete {
		opts = append(opts, address.RequireComplete())
	}
	out := r.StandardizeAddress(c)
	field(stdout, "country", out.Country)
	field(stdout, "line1", out.Primary)
	field(stdout, "line2", out.Secondary)
	field(stdout, "city", out.City)
	field(stdout, "state", out.State)
	field(stdout, "postcode", out.Postcode)
	if abbr, ok := r.StateAbbreviation(c.State, out.Country); ok {
		field(stdout, "state code", abbr)
	}

	problems := r.ValidateInput(in, opts...)
	if len(problems) == 0 {
		field(stdout, "valid", true)
		return 0
	}
	field(stdout, "valid", false)
	for _, f := range slices.Sorted(maps.Keys(problems)) {
		field(stdout, "  "+f, problems[f])
	}
	return 1
}
