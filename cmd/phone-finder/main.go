package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"phonefinder/internal/contacts/index"
	"phonefinder/internal/lookup"
	"phonefinder/internal/lookup/provider"
	"phonefinder/internal/lookup/service"
	"phonefinder/platform/config"
	"phonefinder/platform/logger"
	"phonefinder/platform/phone"
)

const (
	exitMatch   = 0
	exitNoMatch = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := flag.NewFlagSet("phone-finder", flag.ContinueOnError)
	number := flags.String("number", "", "phone number to look up (required)")
	contactsPath := flags.String("contacts", "", "path to CSV contacts (name,phone); defaults to CONTACTS_PATH")
	region := flags.String("region", "", "default region for parsing numbers (e.g. US, GB); defaults to DEFAULT_REGION")
	useRegistry := flags.Bool("use-registry", false, "query only the company registry (OpenCorporates)")
	useDirectory := flags.Bool("use-directory", false, "query only the business directory (Yelp)")
	useCallerID := flags.Bool("use-callerid", false, "query only the caller-ID lookup (Twilio)")
	useHint := flags.Bool("use-hint", false, "query only the hint lookup (NumVerify)")
	noLocal := flags.Bool("no-local", false, "skip the local contact index")
	verbose := flags.Bool("verbose", false, "print per-stage diagnostics")

	if err := flags.Parse(args); err != nil {
		return exitUsage
	}
	if *number == "" {
		fmt.Fprintln(os.Stderr, "--number is required")
		flags.Usage()
		return exitUsage
	}

	forced, err := forcedProvider(*useRegistry, *useDirectory, *useCallerID, *useHint)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}
	if *noLocal && forced == "" {
		fmt.Fprintln(os.Stderr, "--no-local requires one of the --use-* flags")
		return exitUsage
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		return exitUsage
	}
	if *contactsPath != "" {
		cfg.ContactsPath = *contactsPath
	}
	if *region != "" {
		cfg.DefaultRegion = *region
	}

	log := logger.New(cfg.Env)

	idx, err := index.LoadFile(cfg.ContactsPath, cfg.DefaultRegion)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load contacts:", err)
		return exitUsage
	}

	svc := service.New(idx, lookup.NewProviders(cfg, log), log)

	res, err := svc.Resolve(context.Background(), service.Input{
		Number:        *number,
		Region:        cfg.DefaultRegion,
		ForceProvider: forced,
		SkipLocal:     *noLocal,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "lookup failed:", err)
		return exitUsage
	}

	if *verbose {
		if info, err := phone.Describe(res.Number); err == nil {
			fmt.Fprintf(os.Stderr, "number %s: valid=%t possible=%t region=%s line_type=%s\n",
				res.Number, info.Valid, info.Possible, info.Region, info.LineType)
			if info.Description != "" {
				fmt.Fprintln(os.Stderr, "location:", info.Description)
			}
			if info.Carrier != "" {
				fmt.Fprintln(os.Stderr, "carrier:", info.Carrier)
			}
			if len(info.Timezones) > 0 {
				fmt.Fprintln(os.Stderr, "timezones:", strings.Join(info.Timezones, ", "))
			}
		}
		for _, stage := range res.Stages {
			line := fmt.Sprintf("%-16s %s", stage.Provider, stage.Status)
			if stage.Detail != "" {
				line += " (" + stage.Detail + ")"
			}
			fmt.Fprintln(os.Stderr, line)
		}
	}

	if !res.Matched {
		fmt.Println("No match found. Configure a provider API key or supply a larger contact list.")
		return exitNoMatch
	}

	switch res.Source {
	case provider.SourceLocal:
		fmt.Printf("Found locally: %s\n", res.Name)
	case provider.SourceHint:
		fmt.Printf("External lookup hint: %s\n", res.Name)
	default:
		fmt.Printf("Found via %s: %s\n", res.Source, res.Name)
	}
	return exitMatch
}

// forcedProvider maps the mutually exclusive --use-* flags to a source tag.
func forcedProvider(registry, directory, callerID, hint bool) (string, error) {
	forced := ""
	count := 0
	for _, candidate := range []struct {
		set    bool
		source provider.Source
	}{
		{registry, provider.SourceCompanyRegistry},
		{directory, provider.SourceBusinessDirectory},
		{callerID, provider.SourceCallerID},
		{hint, provider.SourceHint},
	} {
		if candidate.set {
			forced = string(candidate.source)
			count++
		}
	}
	if count > 1 {
		return "", fmt.Errorf("the --use-* flags are mutually exclusive")
	}
	return forced, nil
}
