package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/elderflowhq/console/internal/chart"
	"github.com/elderflowhq/console/internal/domain/activity"
	"github.com/elderflowhq/console/internal/domain/audit"
	"github.com/elderflowhq/console/internal/domain/billing"
	"github.com/elderflowhq/console/internal/domain/care"
	"github.com/elderflowhq/console/internal/domain/client"
	"github.com/elderflowhq/console/internal/domain/note"
)

// newChartStore builds a store bound to the API, with destructive prompts
// wired to stdin. Pass skipConfirm for non-interactive use.
func (a *app) newChartStore(skipConfirm bool) *chart.Store {
	confirm := chart.ConfirmFunc(func(prompt string) bool {
		if skipConfirm {
			return true
		}
		fmt.Fprintf(os.Stderr, "%s [y/N] ", prompt)
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return false
		}
		return strings.EqualFold(strings.TrimSpace(line), "y")
	})
	return chart.NewStore(chart.APIBindings(a.api), a.logger, chart.WithConfirmer(confirm))
}

func (a *app) cmdChart(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: elderflow chart <clientID>")
	}
	store := a.newChartStore(false)
	store.Load(ctx, args[0])
	renderChart(store)
	return nil
}

func renderChart(s *chart.Store) {
	rec := s.Client()
	switch rec.State {
	case chart.Loaded:
		fmt.Printf("%s  (%s)\n", rec.Client.Name, rec.Client.Status)
		if rec.Client.CareManager != nil {
			fmt.Println("Care manager:", rec.Client.CareManager.Name)
		}
	case chart.LoadError:
		fmt.Println("Client:", rec.Err)
	}
	fmt.Println()

	snap := s.Snapshot()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Total hours\t%.1f\n", snap.TotalHours)
	fmt.Fprintf(w, "Open invoices\t%d\n", snap.OpenInvoiceCount)
	if snap.LastActivityDate != "" {
		fmt.Fprintf(w, "Last activity\t%s\n", snap.LastActivityDate)
	}
	if snap.PrimaryContact != nil {
		c := snap.PrimaryContact
		fmt.Fprintf(w, "Primary contact\t%s", c.Name)
		if c.Relationship != "" {
			fmt.Fprintf(w, " (%s)", c.Relationship)
		}
		if c.Phone != "" {
			fmt.Fprintf(w, " %s", c.Phone)
		}
		fmt.Fprintln(w)
	}
	if snap.TopAllergyLabel != "" {
		fmt.Fprintf(w, "Allergy\t%s\n", snap.TopAllergyLabel)
	}
	if snap.TopRiskLabel != "" {
		fmt.Fprintf(w, "Risk\t%s\n", snap.TopRiskLabel)
	}
	if snap.PrimaryInsurance != "" {
		fmt.Fprintf(w, "Insurance\t%s\n", snap.PrimaryInsurance)
	}
	w.Flush()
	fmt.Println()

	section(s.Activities(), "ACTIVITIES", func(a activity.Activity) string {
		line := fmt.Sprintf("%s  %dm", a.StartTime, a.DurationMinutes)
		if a.ServiceType != nil {
			line += "  " + a.ServiceType.Name
		}
		if a.IsFlagged {
			line += "  [flagged]"
		}
		return line
	})
	section(s.Invoices(), "INVOICES", func(i billing.Invoice) string {
		return fmt.Sprintf("%s  $%.2f  %s", i.ID, i.TotalAmount, i.Status)
	})
	section(s.Contacts(), "CONTACTS", func(c client.Contact) string {
		line := c.Name
		if c.Relationship != nil {
			line += "  " + *c.Relationship
		}
		if c.IsEmergencyContact {
			line += "  [emergency]"
		}
		return line
	})
	section(s.Providers(), "PROVIDERS", func(p care.Provider) string {
		return p.Type + "  " + p.Name
	})
	section(s.Medications(), "MEDICATIONS", func(m care.Medication) string {
		line := m.Name
		if m.Dosage != nil {
			line += "  " + *m.Dosage
		}
		if m.Frequency != nil {
			line += "  " + *m.Frequency
		}
		return line
	})
	section(s.Allergies(), "ALLERGIES", func(al care.Allergy) string {
		line := al.Allergen
		if al.Severity != nil {
			line += "  (" + *al.Severity + ")"
		}
		return line
	})
	section(s.Insurance(), "INSURANCE", func(i client.Insurance) string {
		line := str(i.Carrier)
		if i.PolicyNumber != nil {
			line += "  " + *i.PolicyNumber
		}
		if i.Primary {
			line += "  [primary]"
		}
		return line
	})
	section(s.Risks(), "RISKS", func(r care.Risk) string {
		line := r.Category
		if r.Severity != nil {
			line += "  (" + *r.Severity + ")"
		}
		return line
	})
	section(s.Documents(), "DOCUMENTS", func(d client.Document) string {
		return d.Title + "  " + d.FileURL
	})
	section(s.CarePlans(), "CARE PLANS", func(p care.CarePlan) string {
		return fmt.Sprintf("%s  %s  [%s]", p.ID, p.Title, p.Status)
	})
	section(s.ProgressNotes(), "PROGRESS NOTES", func(n care.ProgressNote) string {
		return n.Date + "  " + n.Content
	})
	section(s.Notes(), "NOTES", func(n note.Note) string {
		line := n.Content
		if n.AuthorName != "" {
			line += "  by " + n.AuthorName
		}
		return line
	})
	section(s.AuditLog(), "AUDIT LOG", func(e audit.Entry) string {
		return fmt.Sprintf("%s  %s %s %s", e.CreatedAt, str(e.UserName), e.Action, e.EntityType)
	})
}

func section[T any](v chart.View[T], title string, line func(T) string) {
	fmt.Println(title)
	switch v.State {
	case chart.LoadError:
		fmt.Println("  !", v.Err)
	case chart.Loading, chart.NotLoaded:
		fmt.Println("  (loading)")
	default:
		if len(v.Items) == 0 {
			fmt.Println("  (none)")
		}
		for _, item := range v.Items {
			fmt.Println("  -", line(item))
		}
	}
	fmt.Println()
}

func (a *app) cmdAdd(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: elderflow add <clientID> <collection> [flags]")
	}
	clientID, collection := args[0], args[1]
	rest := args[2:]

	store := a.newChartStore(false)
	store.Load(ctx, clientID)

	var id string
	var err error
	switch collection {
	case "contact":
		fs := flag.NewFlagSet("add contact", flag.ExitOnError)
		name := fs.String("name", "", "contact name")
		rel := fs.String("relationship", "", "relationship")
		phone := fs.String("phone", "", "phone")
		emergency := fs.Bool("emergency", false, "mark as emergency contact")
		fs.Parse(rest)
		c := client.Contact{Name: *name, IsEmergencyContact: *emergency}
		if *rel != "" {
			c.Relationship = strPtr(*rel)
		}
		if *phone != "" {
			c.Phone = strPtr(*phone)
		}
		created, e := store.AddContact(ctx, c)
		id, err = created.ID, e

	case "provider":
		fs := flag.NewFlagSet("add provider", flag.ExitOnError)
		typ := fs.String("type", "", "provider type")
		name := fs.String("name", "", "provider name")
		phone := fs.String("phone", "", "phone")
		fs.Parse(rest)
		p := care.Provider{Type: *typ, Name: *name}
		if *phone != "" {
			p.Phone = strPtr(*phone)
		}
		created, e := store.AddProvider(ctx, p)
		id, err = created.ID, e

	case "medication":
		fs := flag.NewFlagSet("add medication", flag.ExitOnError)
		name := fs.String("name", "", "medication name")
		dosage := fs.String("dosage", "", "dosage")
		freq := fs.String("frequency", "", "frequency")
		fs.Parse(rest)
		m := care.Medication{Name: *name}
		if *dosage != "" {
			m.Dosage = strPtr(*dosage)
		}
		if *freq != "" {
			m.Frequency = strPtr(*freq)
		}
		created, e := store.AddMedication(ctx, m)
		id, err = created.ID, e

	case "allergy":
		fs := flag.NewFlagSet("add allergy", flag.ExitOnError)
		allergen := fs.String("allergen", "", "allergen")
		severity := fs.String("severity", "", "severity")
		reaction := fs.String("reaction", "", "reaction")
		fs.Parse(rest)
		al := care.Allergy{Allergen: *allergen}
		if *severity != "" {
			al.Severity = strPtr(*severity)
		}
		if *reaction != "" {
			al.Reaction = strPtr(*reaction)
		}
		created, e := store.AddAllergy(ctx, al)
		id, err = created.ID, e

	case "insurance":
		fs := flag.NewFlagSet("add insurance", flag.ExitOnError)
		carrier := fs.String("carrier", "", "carrier")
		typ := fs.String("type", "", "insurance type")
		policy := fs.String("policy", "", "policy number")
		member := fs.String("member", "", "member id")
		primary := fs.Bool("primary", false, "mark as primary")
		fs.Parse(rest)
		ins := client.Insurance{Primary: *primary}
		if *carrier != "" {
			ins.Carrier = strPtr(*carrier)
		}
		if *typ != "" {
			ins.InsuranceType = strPtr(*typ)
		}
		if *policy != "" {
			ins.PolicyNumber = strPtr(*policy)
		}
		if *member != "" {
			ins.MemberID = strPtr(*member)
		}
		created, e := store.AddInsurance(ctx, ins)
		id, err = created.ID, e

	case "risk":
		fs := flag.NewFlagSet("add risk", flag.ExitOnError)
		category := fs.String("category", "", "risk category")
		severity := fs.String("severity", "", "severity")
		fs.Parse(rest)
		r := care.Risk{Category: *category}
		if *severity != "" {
			r.Severity = strPtr(*severity)
		}
		created, e := store.AddRisk(ctx, r)
		id, err = created.ID, e

	case "document":
		fs := flag.NewFlagSet("add document", flag.ExitOnError)
		title := fs.String("title", "", "document title")
		url := fs.String("url", "", "file URL")
		fs.Parse(rest)
		created, e := store.AddDocument(ctx, client.Document{Title: *title, FileURL: *url})
		id, err = created.ID, e

	case "plan":
		fs := flag.NewFlagSet("add plan", flag.ExitOnError)
		title := fs.String("title", "", "plan title")
		status := fs.String("status", "active", "plan status")
		fs.Parse(rest)
		created, e := store.AddCarePlan(ctx, care.CarePlan{
			Title:  *title,
			Status: care.PlanStatus(*status),
		})
		id, err = created.ID, e

	case "progress-note":
		fs := flag.NewFlagSet("add progress-note", flag.ExitOnError)
		date := fs.String("date", "", "note date (YYYY-MM-DD)")
		content := fs.String("content", "", "note content")
		fs.Parse(rest)
		created, e := store.AddProgressNote(ctx, care.ProgressNote{Date: *date, Content: *content})
		id, err = created.ID, e

	case "note":
		fs := flag.NewFlagSet("add note", flag.ExitOnError)
		content := fs.String("content", "", "note content")
		fs.Parse(rest)
		created, e := store.AddNote(ctx, note.Note{Content: *content})
		id, err = created.ID, e

	default:
		return fmt.Errorf("unknown collection %q", collection)
	}

	if err != nil {
		return err
	}
	fmt.Println("Added", collection, id)
	return nil
}

func (a *app) cmdRemove(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("rm", flag.ExitOnError)
	yes := fs.Bool("y", false, "skip confirmation prompts")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 3 {
		return fmt.Errorf("usage: elderflow rm <clientID> <collection> <id>")
	}
	clientID, collection, id := fs.Arg(0), fs.Arg(1), fs.Arg(2)

	store := a.newChartStore(*yes)
	store.Load(ctx, clientID)

	var err error
	switch collection {
	case "contact":
		err = store.RemoveContact(ctx, id)
	case "provider":
		err = store.RemoveProvider(ctx, id)
	case "medication":
		err = store.RemoveMedication(ctx, id)
	case "allergy":
		err = store.RemoveAllergy(ctx, id)
	case "insurance":
		err = store.RemoveInsurance(ctx, id)
	case "risk":
		err = store.RemoveRisk(ctx, id)
	case "document":
		err = store.RemoveDocument(ctx, id)
	case "plan":
		err = store.RemoveCarePlan(ctx, id)
	case "progress-note":
		err = store.RemoveProgressNote(ctx, id)
	case "note":
		err = store.RemoveNote(ctx, id)
	default:
		return fmt.Errorf("unknown collection %q", collection)
	}
	if err != nil {
		return err
	}
	fmt.Println("Removed", collection, id)
	return nil
}

func (a *app) cmdPlan(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: elderflow plan <clientID> goals|add-goal <planID>")
	}
	clientID, sub, planID := args[0], args[1], args[2]

	store := a.newChartStore(false)
	store.Load(ctx, clientID)

	switch sub {
	case "goals":
		if err := store.OpenPlan(ctx, planID); err != nil {
			return err
		}
		detail := store.PlanDetail()
		if detail.State == chart.PlanOpenError {
			return fmt.Errorf("%s", detail.Err)
		}
		if len(detail.Goals) == 0 {
			fmt.Println("(no goals)")
		}
		for _, g := range detail.Goals {
			fmt.Printf("- %s  [%s]\n", g.Title, g.Status)
		}
		return nil

	case "add-goal":
		fs := flag.NewFlagSet("plan add-goal", flag.ExitOnError)
		title := fs.String("title", "", "goal title")
		status := fs.String("status", "not_started", "goal status")
		if err := fs.Parse(args[3:]); err != nil {
			return err
		}
		if err := store.OpenPlan(ctx, planID); err != nil {
			return err
		}
		created, err := store.AddGoal(ctx, care.Goal{Title: *title, Status: *status})
		if err != nil {
			return err
		}
		fmt.Println("Added goal", created.ID)
		return nil

	default:
		return fmt.Errorf("usage: elderflow plan <clientID> goals|add-goal <planID>")
	}
}

func (a *app) cmdActivity(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: elderflow activity add|edit|rm ...")
	}
	switch args[0] {
	case "add":
		return a.cmdActivityAdd(ctx, args[1:])
	case "edit":
		return a.cmdActivityEdit(ctx, args[1], args[2:])
	case "rm":
		if err := a.api.DeleteActivity(ctx, args[1]); err != nil {
			return err
		}
		fmt.Println("Deleted activity", args[1])
		return nil
	default:
		return fmt.Errorf("usage: elderflow activity add|edit|rm ...")
	}
}

func (a *app) cmdActivityAdd(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: elderflow activity add <clientID> [flags]")
	}
	clientID := args[0]

	fs := flag.NewFlagSet("activity add", flag.ExitOnError)
	start := fs.String("start", "", "start time (RFC 3339)")
	minutes := fs.Int("minutes", 0, "duration minutes")
	notes := fs.String("notes", "", "notes")
	billable := fs.Bool("billable", true, "billable")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	act := activity.Activity{
		ClientID:        clientID,
		StartTime:       *start,
		DurationMinutes: *minutes,
		Notes:           *notes,
		IsBillable:      *billable,
	}
	if err := act.Validate(); err != nil {
		return err
	}
	created, err := a.api.CreateActivity(ctx, act)
	if err != nil {
		return err
	}
	fmt.Println("Logged activity", created.ID)
	return nil
}

func (a *app) cmdActivityEdit(ctx context.Context, id string, args []string) error {
	fs := flag.NewFlagSet("activity edit", flag.ExitOnError)
	start := fs.String("start", "", "start time")
	minutes := fs.Int("minutes", 0, "duration minutes")
	notes := fs.String("notes", "", "notes")
	billable := fs.Bool("billable", false, "billable")
	flagged := fs.Bool("flag", false, "flagged")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// Only fields explicitly passed become part of the patch.
	var patch activity.Patch
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "start":
			patch.StartTime = start
		case "minutes":
			patch.DurationMinutes = minutes
		case "notes":
			patch.Notes = notes
		case "billable":
			patch.IsBillable = billable
		case "flag":
			patch.IsFlagged = flagged
		}
	})

	resp, err := a.api.UpdateActivity(ctx, id, patch)
	if err != nil {
		return err
	}
	fmt.Println("Updated activity", id)
	if resp.DurationMinutes != nil {
		fmt.Println("Duration:", *resp.DurationMinutes, "minutes")
	}
	return nil
}
