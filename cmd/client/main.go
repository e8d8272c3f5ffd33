package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/MKhiriev/go-yamdb/internal/adapter"
	"github.com/MKhiriev/go-yamdb/internal/config"
	"github.com/MKhiriev/go-yamdb/internal/logger"
	"github.com/MKhiriev/go-yamdb/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

var errUsage = errors.New("usage: yamdb-client [-s url] [-t token] <version|signup|token|me|titles|reviews> [flags]")

func main() {
	log := logger.New(os.Stderr, "yamdb-client")

	cfg, args, err := config.GetClientConfig(os.Args[0], os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	client, err := adapter.NewHTTPAPIClient(cfg.Adapter, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create api client")
	}
	client.SetToken(cfg.Token)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err = run(ctx, client, args); err != nil {
		stop()
		log.Fatal().Err(err).Msg("command failed")
	}
}

func run(ctx context.Context, client adapter.APIClient, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	cmd, args := args[0], args[1:]
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)

	switch cmd {
	case "version":
		printBuildInfo()
		version, err := client.Version(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Server version: %s\n", version)
		return nil

	case "signup":
		var req models.SignupRequest
		fs.StringVar(&req.Username, "username", "", "Username")
		fs.StringVar(&req.Email, "email", "", "Email the confirmation code is sent to")
		if err := fs.Parse(args); err != nil {
			return err
		}
		accepted, err := client.Signup(ctx, req)
		if err != nil {
			return err
		}
		fmt.Printf("Confirmation code sent to %s\n", accepted.Email)
		return nil

	case "token":
		var req models.TokenRequest
		fs.StringVar(&req.Username, "username", "", "Username")
		fs.StringVar(&req.ConfirmationCode, "code", "", "Confirmation code from the email")
		if err := fs.Parse(args); err != nil {
			return err
		}
		token, err := client.ExchangeToken(ctx, req)
		if err != nil {
			return err
		}
		fmt.Println(token)
		return nil

	case "me":
		user, err := client.Me(ctx)
		if err != nil {
			return err
		}
		return printJSON(user)

	case "titles":
		page := fs.Int("page", 1, "Page number")
		if err := fs.Parse(args); err != nil {
			return err
		}
		titles, err := client.ListTitles(ctx, *page)
		if err != nil {
			return err
		}
		return printJSON(titles)

	case "reviews":
		page := fs.Int("page", 1, "Page number")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if fs.NArg() != 1 {
			return fmt.Errorf("reviews needs a title id: %w", errUsage)
		}
		titleID, err := strconv.ParseInt(fs.Arg(0), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid title id %q: %w", fs.Arg(0), err)
		}
		reviews, err := client.ListReviews(ctx, titleID, *page)
		if err != nil {
			return err
		}
		return printJSON(reviews)

	default:
		return fmt.Errorf("unknown command %q: %w", cmd, errUsage)
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
