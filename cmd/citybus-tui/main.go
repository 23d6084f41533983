// citybus-tui runs one booking session in the terminal. All data is
// simulated locally; no server, database or Redis is needed.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/kirinyoku/citybus/internal/catalog"
	"github.com/kirinyoku/citybus/internal/flow"
	"github.com/kirinyoku/citybus/internal/session"
	"github.com/kirinyoku/citybus/internal/tui"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var (
		discoveryDelay time.Duration
		bookingDelay   time.Duration
		otpPolicy      string
		paymentPolicy  string
		logOutput      string
	)

	flagSet := pflag.NewFlagSet("citybus-tui", pflag.ContinueOnError)
	flagSet.DurationVar(&discoveryDelay, "discovery-delay", flow.DefaultDiscoveryDelay, "simulated location detection time")
	flagSet.DurationVar(&bookingDelay, "booking-delay", flow.DefaultBookingDelay, "simulated payment time")
	flagSet.StringVar(&otpPolicy, "otp-policy", "accept", `one-time code policy: "accept" or "fixed:<code>"`)
	flagSet.StringVar(&paymentPolicy, "payment-policy", "approve", `payment outcome: "approve" or "decline"`)
	flagSet.StringVar(&logOutput, "log-output", "", "write JSON log records to this file")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}

	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}

	codes, err := flow.ParseCodeVerifier(otpPolicy)
	if err != nil {
		return fmt.Errorf("--otp-policy: %w", err)
	}

	payments, err := flow.ParsePaymentGateway(paymentPolicy)
	if err != nil {
		return fmt.Errorf("--payment-policy: %w", err)
	}

	// The terminal belongs to the UI, so logs go to a file or nowhere.
	var logWriter io.Writer = io.Discard
	if logOutput != "" {
		file, err := os.OpenFile(logOutput, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log output: %w", err)
		}
		defer file.Close()
		logWriter = file
	}
	logger := slog.New(slog.NewJSONHandler(logWriter, &slog.HandlerOptions{Level: slog.LevelDebug}))

	manager := session.NewManager(session.Options{
		Source: catalog.Static{},
		Env: flow.Env{
			DiscoveryDelay: discoveryDelay,
			BookingDelay:   bookingDelay,
			Codes:          codes,
			Payments:       payments,
		},
		Logger: logger,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ctrl := manager.Open()
	defer manager.Close(ctrl.ID())

	program := tea.NewProgram(tui.NewModel(ctx, ctrl), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running terminal UI: %w", err)
	}

	return nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, "Usage: citybus-tui [flags]\n\n")
	fmt.Fprintf(os.Stderr, "Book a seat on a simulated city bus from the terminal.\n\n")
	fmt.Fprintf(os.Stderr, "Flags:\n")
	flagSet.PrintDefaults()
}
