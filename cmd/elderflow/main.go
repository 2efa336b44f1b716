package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/joho/godotenv"

	"github.com/elderflowhq/console/internal/api"
	"github.com/elderflowhq/console/internal/auth"
	"github.com/elderflowhq/console/internal/chart"
	"github.com/elderflowhq/console/internal/config"
	"github.com/elderflowhq/console/internal/domain/activity"
	"github.com/elderflowhq/console/internal/domain/org"
)

const usage = `elderflow - elder-care admin console

Usage:
  elderflow login <email> [-password pw]
  elderflow logout
  elderflow whoami
  elderflow clients
  elderflow chart <clientID>
  elderflow add <clientID> <collection> [flags]
  elderflow rm <clientID> <collection> <id> [-y]
  elderflow plan <clientID> goals <planID>
  elderflow plan <clientID> add-goal <planID> -title t [flags]
  elderflow activity add <clientID> [flags]
  elderflow activity edit <id> [flags]
  elderflow activity rm <id>
  elderflow facesheet <clientID> [-o file]
  elderflow org settings [-name n ...]
  elderflow org audit
  elderflow service-types [add -name n | sync <file.json>]
  elderflow users [add -name n -email e | metrics <id>]
  elderflow cm summary|notes [add -content c]

Collections for add/rm: contact, provider, medication, allergy,
insurance, risk, document, plan, progress-note, note.
`

// app carries the wiring shared by every subcommand.
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	session *auth.FileStore
	api     *api.Client
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	session := auth.NewFileStore(cfg.Session.Path)
	client, err := api.New(cfg.API.BaseURL, session,
		api.WithLogger(logger),
		api.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "api error: %v\n", err)
		os.Exit(1)
	}

	a := &app{cfg: cfg, logger: logger, session: session, api: client}

	args := os.Args[1:]
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx := context.Background()
	if err := a.run(ctx, args[0], args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", renderError(err))
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "login":
		return a.cmdLogin(ctx, args)
	case "logout":
		return a.session.Clear()
	case "whoami":
		return a.cmdWhoami()
	case "clients":
		return a.cmdClients(ctx)
	case "chart":
		return a.cmdChart(ctx, args)
	case "add":
		return a.cmdAdd(ctx, args)
	case "rm":
		return a.cmdRemove(ctx, args)
	case "plan":
		return a.cmdPlan(ctx, args)
	case "activity":
		return a.cmdActivity(ctx, args)
	case "facesheet":
		return a.cmdFaceSheet(ctx, args)
	case "org":
		return a.cmdOrg(ctx, args)
	case "service-types":
		return a.cmdServiceTypes(ctx, args)
	case "users":
		return a.cmdUsers(ctx, args)
	case "cm":
		return a.cmdCM(ctx, args)
	case "help", "-h", "--help":
		fmt.Print(usage)
		return nil
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// renderError prefers the console-facing message for known failures.
func renderError(err error) string {
	if msg := chart.Message(err, ""); msg != "" {
		return msg
	}
	return err.Error()
}

// requireCap short-circuits before any network call when the saved session
// lacks a capability.
func (a *app) requireCap(c auth.Capability) error {
	creds := a.session.Credentials()
	if creds == nil {
		return auth.ErrNotLoggedIn
	}
	if !creds.User.Role.Can(c) {
		return fmt.Errorf("your role (%s) does not allow this action", creds.User.Role)
	}
	return nil
}

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	password := fs.String("password", "", "password (prompted when omitted)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: elderflow login <email>")
	}
	email := fs.Arg(0)

	pw := *password
	if pw == "" {
		fmt.Fprint(os.Stderr, "Password: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		pw = strings.TrimSpace(line)
	}

	creds, err := a.api.Login(ctx, email, pw)
	if err != nil {
		return err
	}
	if err := a.session.Save(creds); err != nil {
		return err
	}
	fmt.Printf("Logged in as %s (%s)\n", creds.User.Name, creds.User.Role)
	return nil
}

func (a *app) cmdWhoami() error {
	creds := a.session.Credentials()
	if creds == nil {
		return auth.ErrNotLoggedIn
	}
	fmt.Printf("%s (%s) role=%s\n", creds.User.Name, creds.User.ID, creds.User.Role)
	return nil
}

func (a *app) cmdClients(ctx context.Context) error {
	clients, err := a.api.ListClients(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTATUS\tCARE MANAGER")
	for _, c := range clients {
		cm := ""
		if c.CareManager != nil {
			cm = c.CareManager.Name
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Status, cm)
	}
	return w.Flush()
}

func (a *app) cmdFaceSheet(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("facesheet", flag.ExitOnError)
	out := fs.String("o", "", "write to file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: elderflow facesheet <clientID>")
	}

	data, err := a.api.FaceSheet(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	if *out == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		return err
	}
	fmt.Printf("Wrote %d bytes to %s\n", len(data), *out)
	return nil
}

func (a *app) cmdOrg(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: elderflow org settings|audit")
	}
	switch args[0] {
	case "settings":
		fs := flag.NewFlagSet("org settings", flag.ExitOnError)
		name := fs.String("name", "", "organization name")
		address := fs.String("address", "", "address")
		phone := fs.String("phone", "", "phone")
		billingEmail := fs.String("billing-email", "", "billing email")
		rate := fs.Float64("rate", 0, "default hourly rate")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}

		settings, err := a.api.OrgSettings(ctx)
		if err != nil {
			return err
		}
		if *name == "" && *address == "" && *phone == "" && *billingEmail == "" && *rate == 0 {
			printSettings(settings)
			return nil
		}

		if err := a.requireCap(auth.CapEditOrgSettings); err != nil {
			return err
		}
		if *name != "" {
			settings.Name = *name
		}
		if *address != "" {
			settings.Address = strPtr(*address)
		}
		if *phone != "" {
			settings.Phone = strPtr(*phone)
		}
		if *billingEmail != "" {
			settings.BillingEmail = strPtr(*billingEmail)
		}
		if *rate != 0 {
			settings.DefaultHourlyRate = *rate
		}
		if err := settings.Validate(); err != nil {
			return err
		}
		saved, err := a.api.SaveOrgSettings(ctx, settings)
		if err != nil {
			return err
		}
		printSettings(saved)
		return nil

	case "audit":
		entries, err := a.api.OrgAuditLog(ctx)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "WHEN\tWHO\tACTION\tENTITY")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.CreatedAt, str(e.UserName), e.Action, e.EntityType)
		}
		return w.Flush()

	default:
		return fmt.Errorf("usage: elderflow org settings|audit")
	}
}

func printSettings(s org.Settings) {
	fmt.Println("Organization:", s.Name)
	if s.Address != nil {
		fmt.Println("Address:     ", *s.Address)
	}
	if s.Phone != nil {
		fmt.Println("Phone:       ", *s.Phone)
	}
	if s.BillingEmail != nil {
		fmt.Println("Billing:     ", *s.BillingEmail)
	}
	if s.DefaultHourlyRate != 0 {
		fmt.Printf("Default rate: $%.2f/hr\n", s.DefaultHourlyRate)
	}
}

func (a *app) cmdServiceTypes(ctx context.Context, args []string) error {
	if len(args) == 0 {
		types, err := a.api.ServiceTypes(ctx)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tRATE")
		for _, st := range types {
			fmt.Fprintf(w, "%s\t%s\t$%.2f\n", st.ID, st.Name, st.HourlyRate)
		}
		return w.Flush()
	}

	switch args[0] {
	case "add":
		if err := a.requireCap(auth.CapEditOrgSettings); err != nil {
			return err
		}
		fs := flag.NewFlagSet("service-types add", flag.ExitOnError)
		name := fs.String("name", "", "service type name")
		rate := fs.Float64("rate", 0, "hourly rate")
		code := fs.String("code", "", "billing code")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		st := activity.ServiceType{Name: *name, HourlyRate: *rate}
		if *code != "" {
			st.Code = strPtr(*code)
		}
		if err := st.Validate(); err != nil {
			return err
		}
		created, err := a.api.CreateServiceType(ctx, st)
		if err != nil {
			return err
		}
		fmt.Println("Created service type", created.ID)
		return nil

	case "sync":
		if err := a.requireCap(auth.CapEditOrgSettings); err != nil {
			return err
		}
		if len(args) < 2 {
			return fmt.Errorf("usage: elderflow service-types sync <file.json>")
		}
		data, err := os.ReadFile(args[1])
		if err != nil {
			return err
		}
		var types []activity.ServiceType
		if err := json.Unmarshal(data, &types); err != nil {
			return fmt.Errorf("parse %s: %w", args[1], err)
		}
		synced, err := a.api.BulkSyncServiceTypes(ctx, types)
		if err != nil {
			return err
		}
		fmt.Printf("Synced %d service types\n", len(synced))
		return nil

	default:
		return fmt.Errorf("usage: elderflow service-types [add|sync]")
	}
}

func (a *app) cmdUsers(ctx context.Context, args []string) error {
	if len(args) == 0 {
		users, err := a.api.Users(ctx)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE")
		for _, u := range users {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.Role)
		}
		return w.Flush()
	}

	switch args[0] {
	case "add":
		if err := a.requireCap(auth.CapManageUsers); err != nil {
			return err
		}
		fs := flag.NewFlagSet("users add", flag.ExitOnError)
		name := fs.String("name", "", "full name")
		email := fs.String("email", "", "email")
		role := fs.String("role", "care_manager", "role")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		account := org.Account{Name: *name, Email: *email, Role: *role}
		if err := account.Validate(); err != nil {
			return err
		}
		created, err := a.api.CreateUser(ctx, account)
		if err != nil {
			return err
		}
		fmt.Println("Created user", created.ID)
		return nil

	case "metrics":
		if len(args) < 2 {
			return fmt.Errorf("usage: elderflow users metrics <id>")
		}
		m, err := a.api.UserMetrics(ctx, args[1])
		if err != nil {
			return err
		}
		fmt.Printf("Active clients:        %d\n", m.ActiveClients)
		fmt.Printf("Activities this month: %d\n", m.ActivitiesThisMonth)
		fmt.Printf("Hours this month:      %.1f\n", m.HoursThisMonth)
		return nil

	default:
		return fmt.Errorf("usage: elderflow users [add|metrics]")
	}
}

func (a *app) cmdCM(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: elderflow cm summary|notes")
	}
	switch args[0] {
	case "summary":
		s, err := a.api.CMSummary(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Clients:         %d\n", s.ClientCount)
		fmt.Printf("Hours this week: %.1f\n", s.HoursThisWeek)
		fmt.Printf("Open invoices:   %d\n", s.OpenInvoices)
		fmt.Printf("Flagged clients: %d\n", s.FlaggedClients)
		return nil

	case "notes":
		if len(args) > 1 && args[1] == "add" {
			fs := flag.NewFlagSet("cm notes add", flag.ExitOnError)
			content := fs.String("content", "", "note content")
			if err := fs.Parse(args[2:]); err != nil {
				return err
			}
			n := org.CMNote{Content: *content}
			if err := n.Validate(); err != nil {
				return err
			}
			created, err := a.api.CreateCMNote(ctx, n)
			if err != nil {
				return err
			}
			fmt.Println("Added note", created.ID)
			return nil
		}
		notes, err := a.api.CMNotes(ctx)
		if err != nil {
			return err
		}
		for _, n := range notes {
			fmt.Printf("[%s] %s\n", n.CreatedAt, n.Content)
		}
		return nil

	default:
		return fmt.Errorf("usage: elderflow cm summary|notes")
	}
}

func strPtr(s string) *string { return &s }

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
