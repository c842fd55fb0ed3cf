package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spec-kit/diet-tracker/internal/client"
	"github.com/spec-kit/diet-tracker/internal/client/action"
	"github.com/spec-kit/diet-tracker/internal/client/report"
	"github.com/spec-kit/diet-tracker/internal/client/state"
)

const timeLayout = "2006-01-02 15:04"

func run(ctx context.Context, app *client.App, out io.Writer, cmd string, args []string) error {
	switch cmd {
	case "signup":
		return cmdSignUp(ctx, app, out, args)
	case "login":
		return cmdLogin(ctx, app, out, args)
	case "logout":
		if err := app.Logout(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "signed out")
		return nil
	case "whoami":
		return cmdWhoAmI(ctx, app, out)
	case "foods":
		return cmdFoods(ctx, app, out, args)
	case "users":
		return cmdUsers(ctx, app, out)
	case "add":
		return cmdAdd(ctx, app, out, args)
	case "edit":
		return cmdEdit(ctx, app, out, args)
	case "delete":
		return cmdDelete(ctx, app, out, args)
	case "threshold":
		return cmdThreshold(ctx, app, out, args)
	case "report":
		return cmdReport(ctx, app, out, args)
	default:
		printUsage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func cmdSignUp(ctx context.Context, app *client.App, out io.Writer, args []string) error {
	fs := flag.NewFlagSet("signup", flag.ContinueOnError)
	first := fs.String("first", "", "first name")
	last := fs.String("last", "", "last name")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password (min 6 characters)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	user, err := app.SignUp(ctx, action.Registration{FirstName: *first, LastName: *last, Email: *email, Password: *password})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "registered %s (%s); run dietctl login\n", user.Email, user.ID)
	return nil
}

func cmdLogin(ctx context.Context, app *client.App, out io.Writer, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	sess, err := app.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "signed in as %s %s <%s>\n", sess.FirstName, sess.LastName, sess.Identity.Email)
	return nil
}

// bootstrap restores the stored session or reports that none exists.
func bootstrap(ctx context.Context, app *client.App) error {
	ok, err := app.Bootstrap(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return client.ErrSignedOut
	}
	return nil
}

func cmdWhoAmI(ctx context.Context, app *client.App, out io.Writer) error {
	if err := bootstrap(ctx, app); err != nil {
		return err
	}
	sess, _ := app.Session().Current()
	role := "user"
	if sess.IsAdmin {
		role = "admin"
	}
	fmt.Fprintf(out, "%s %s <%s>\nid: %s\nrole: %s\ndaily threshold: %d\n",
		sess.FirstName, sess.LastName, sess.Identity.Email, sess.Identity.ID, role, sess.DailyThreshold)
	return nil
}

func cmdFoods(ctx context.Context, app *client.App, out io.Writer, args []string) error {
	fs := flag.NewFlagSet("foods", flag.ContinueOnError)
	recent := fs.Bool("recent", false, "only entries from the last 7 days")
	older := fs.Bool("older", false, "only entries older than 7 days")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := bootstrap(ctx, app); err != nil {
		return err
	}
	if err := app.LoadDashboard(ctx); err != nil {
		return err
	}

	foods := visibleFoods(app)
	now := time.Now()
	switch {
	case *recent:
		foods = report.Recent(foods, now)
	case *older:
		foods = report.Older(foods, now)
	}
	printFoods(out, foods)
	return nil
}

func cmdUsers(ctx context.Context, app *client.App, out io.Writer) error {
	if err := bootstrap(ctx, app); err != nil {
		return err
	}
	if sess, _ := app.Session().Current(); !sess.IsAdmin {
		return client.ErrNotAdmin
	}
	if err := app.LoadDashboard(ctx); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tTHRESHOLD")
	for _, u := range app.Store().Snapshot().User.Users {
		fmt.Fprintf(tw, "%s\t%s %s\t%s\t%d\n", u.ID, u.FirstName, u.LastName, u.Email, u.DailyThreshold)
	}
	return tw.Flush()
}

func foodFlags(fs *flag.FlagSet) (name *string, calorie *float64, at *string, cheat *bool) {
	name = fs.String("name", "", "product name")
	calorie = fs.Float64("calorie", 0, "calories")
	at = fs.String("time", "", "time consumed ("+timeLayout+", local); defaults to now")
	cheat = fs.Bool("cheat", false, "mark as cheat food")
	return
}

func parseConsumed(value string) (time.Time, error) {
	if value == "" {
		return time.Now(), nil
	}
	t, err := time.ParseInLocation(timeLayout, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid -time %q: %w", value, err)
	}
	return t, nil
}

func cmdAdd(ctx context.Context, app *client.App, out io.Writer, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	name, calorie, at, cheat := foodFlags(fs)
	user := fs.String("user", "", "log for this user id (admin)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	consumed, err := parseConsumed(*at)
	if err != nil {
		return err
	}
	if err := bootstrap(ctx, app); err != nil {
		return err
	}

	entry := action.FoodEntry{ProductName: *name, Calorie: *calorie, TimeConsumed: consumed, IsCheatFood: *cheat}
	var food state.Food
	if *user != "" {
		food, err = app.CreateFoodForUser(ctx, *user, entry)
	} else {
		food, err = app.CreateFood(ctx, entry)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "logged %s (%s)\n", food.ProductName, food.ID)
	return nil
}

func cmdEdit(ctx context.Context, app *client.App, out io.Writer, args []string) error {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	id := fs.String("id", "", "entry id")
	name, calorie, at, cheat := foodFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("-id is required")
	}
	consumed, err := parseConsumed(*at)
	if err != nil {
		return err
	}
	if err := bootstrap(ctx, app); err != nil {
		return err
	}
	food, err := app.UpdateFood(ctx, *id, action.FoodEntry{ProductName: *name, Calorie: *calorie, TimeConsumed: consumed, IsCheatFood: *cheat})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "updated %s (%s)\n", food.ProductName, food.ID)
	return nil
}

func cmdDelete(ctx context.Context, app *client.App, out io.Writer, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("no entry ids given")
	}
	if err := bootstrap(ctx, app); err != nil {
		return err
	}
	ids, err := app.DeleteFoods(ctx, fs.Args())
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "deleted %s\n", strings.Join(ids, ", "))
	return nil
}

func cmdThreshold(ctx context.Context, app *client.App, out io.Writer, args []string) error {
	fs := flag.NewFlagSet("threshold", flag.ContinueOnError)
	user := fs.String("user", "", "user id; defaults to the signed-in user")
	value := fs.Int("value", -1, "daily calorie threshold")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *value < 0 {
		return errors.New("-value is required")
	}
	if err := bootstrap(ctx, app); err != nil {
		return err
	}
	u, err := app.UpdateDailyThreshold(ctx, *user, *value)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s daily threshold: %d\n", u.Email, u.DailyThreshold)
	return nil
}

func cmdReport(ctx context.Context, app *client.App, out io.Writer, args []string) error {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	over := fs.Bool("over", false, "only days over the threshold")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := bootstrap(ctx, app); err != nil {
		return err
	}
	if err := app.LoadDashboard(ctx); err != nil {
		return err
	}

	sess, _ := app.Session().Current()
	snap := app.Store().Snapshot()
	thresholds := map[string]int{sess.Identity.ID: sess.DailyThreshold}
	for _, u := range snap.User.Users {
		thresholds[u.ID] = u.DailyThreshold
	}

	totals := report.DailyTotals(visibleFoods(app), time.Local)
	if *over {
		totals = report.ExceededDaysByUser(totals, thresholds, sess.DailyThreshold)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "USER\tDAY\tCALORIES\tENTRIES\tCHEAT\tOVER")
	for _, t := range totals {
		limit, ok := thresholds[t.UserID]
		if !ok {
			limit = sess.DailyThreshold
		}
		fmt.Fprintf(tw, "%s\t%s\t%.0f\t%d\t%d\t%t\n",
			t.UserID, t.Day.Format("2006-01-02"), t.Calories, t.Entries, t.CheatEntries, t.Exceeds(limit))
	}
	return tw.Flush()
}

func visibleFoods(app *client.App) []state.Food {
	snap := app.Store().Snapshot()
	if snap.User.Details != nil && snap.User.Details.IsAdmin {
		return snap.Food.All
	}
	return snap.Food.ByUser
}

func printFoods(out io.Writer, foods []state.Food) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPRODUCT\tCALORIES\tCHEAT\tCONSUMED\tCREATOR")
	for _, f := range foods {
		creator := f.Creator.ID
		if f.Creator.Email != "" {
			creator = f.Creator.Email
		}
		fmt.Fprintf(tw, "%s\t%s\t%.0f\t%t\t%s\t%s\n",
			f.ID, f.ProductName, f.Calorie, f.IsCheatFood, f.TimeConsumed.Local().Format(timeLayout), creator)
	}
	_ = tw.Flush()
}
