// Command profilectl inspects contact values and runs the duplicate sweep.
//
// Commands:
//
//	email <address>               Normalize and classify an e-mail address
//	phone <number>                Render a phone number in every form
//	postcode <value> -country CC  Standardize and validate a postcode
//	address -country CC ...       Standardize and validate a whole address
//	sweep                         Auto-merge duplicates on a schedule
//	keygen                        Print a new field encryption key
package main

import (
	"context"
	"fmt"
	"io"
	"os"
)

const version = "0.3.0"

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stdout)
		return 0
	}

	switch cmd, rest := args[0], args[1:]; cmd {
	case "email":
		return runEmail(rest, stdout, stderr)
	case "phone":
		return runPhone(rest, stdout, stderr)
	case "postcode":
		return runPostcode(rest, stdout, stderr)
	case "address":
		return runAddress(rest, stdout, stderr)
	case "sweep":
		return runSweep(ctx, rest, stdout, stderr)
	case "keygen":
		return runKeygen(stdout, stderr)
	case "version":
		fmt.Fprintf(stdout, "profilectl v%s\n", version)
		return 0
	case "help", "-h", "--help":
		printUsage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command: %s\n\n", cmd)
		printUsage(stderr)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "profilectl v"+version)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  profilectl <command> [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  email <address>              Normalize and classify an e-mail address")
	fmt.Fprintln(w, "  phone <number> [-cc 60]      Render a phone number in every form")
	fmt.Fprintln(w, "  postcode <value> -country CC Standardize and validate a postcode")
	fmt.Fprintln(w, "  address -country CC ...      Standardize and validate an address")
	fmt.Fprintln(w, "  sweep [-config file] [-once] Auto-merge duplicates for every owner")
	fmt.Fprintln(w, "  keygen                       Print a new field encryption key")
	fmt.Fprintln(w, "  version                      Print version")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment Variables:")
	fmt.Fprintln(w, "  PROFILE_STORE_DRIVER   memory, postgres or sqlite")
	fmt.Fprintln(w, "  PROFILE_POSTGRES_URL   Postgres connection URL")
	fmt.Fprintln(w, "  PROFILE_SQLITE_PATH    SQLite database file")
	fmt.Fprintln(w, "  PROFILE_REDIS_ADDRS    Comma-separated Redis addresses for the owner lock")
	fmt.Fprintln(w, "  PROFILE_FIELD_KEY      Hex AES-256 key for field encryption")
}

// field prints one aligned "label: value" line.
func field(w io.Writer, label string, value any) {
	fmt.Fprintf(w, "%-16s %v\n", label+":", value)
}
