package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"finance_tracker/internal/config"
	"finance_tracker/internal/db"
	"finance_tracker/internal/domain"
	"finance_tracker/internal/service"
	"finance_tracker/internal/utils"

	"golang.org/x/term"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// registrar is the part of service.AuthService this tool needs
type registrar interface {
	Register(ctx context.Context, in service.Credentials) (domain.AuthTokenPair, error)
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("useradd", flag.ContinueOnError)
	fs.SetOutput(stderr)

	email := fs.String("email", "", "Email of the new user")
	passwordFlag := fs.String("password", "", "Password (optional, will prompt if omitted)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		fmt.Fprintln(stdout, "Usage: useradd -email <email> [-password <password>]")
		fs.PrintDefaults()
		return fmt.Errorf("missing required flags: email")
	}

	password := *passwordFlag
	if password == "" {
		fmt.Fprint(stdout, "Password: ")
		var err error
		password, err = readPassword(stdin)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(stdout)
	}
	if strings.TrimSpace(password) == "" {
		return fmt.Errorf("password cannot be empty")
	}

	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}
	gdb, err := db.Open(cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	store := db.NewStore(gdb)
	// Tokens are issued as a side effect of registration and discarded here
	issuer := utils.NewTokenIssuer(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)
	auth := service.NewAuthService(store, utils.NewHasher(utils.DefaultHashParams()), issuer)

	return register(context.Background(), auth, *email, password, stdout)
}

func register(ctx context.Context, r registrar, email, password string, stdout io.Writer) error {
	_, err := r.Register(ctx, service.Credentials{Email: email, Password: password})
	if errors.Is(err, domain.ErrDuplicateIdentity) {
		return fmt.Errorf("user %s already exists", email)
	}
	var verrs domain.ValidationErrors
	if errors.As(err, &verrs) {
		return fmt.Errorf("invalid input: %s", verrs.Error())
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	fmt.Fprintf(stdout, "User %s created successfully\n", strings.ToLower(strings.TrimSpace(email)))
	return nil
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}

	// Pipes and tests
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
