package familyhub

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"text/tabwriter"

	apperrors "github.com/louisbranch/familyhub/internal/platform/errors"
	"github.com/louisbranch/familyhub/internal/platform/errors/i18n"
	"github.com/louisbranch/familyhub/internal/services/backend"
	"github.com/louisbranch/familyhub/internal/services/session"
	"github.com/louisbranch/familyhub/internal/services/session/storage/sqlite"
)

var errUsage = errors.New("invalid arguments")

type app struct {
	cfg      Config
	in       io.Reader
	out      io.Writer
	notifier *notifier
	store    *sqlite.Store
	client   *backend.Client
	manager  *session.Manager
}

func newApp(ctx context.Context, cfg Config, in io.Reader, out, errOut io.Writer) (*app, error) {
	if strings.TrimSpace(cfg.StorageSecret) == "" {
		return nil, errors.New("FAMILYHUB_STORAGE_SECRET is required")
	}
	store, err := sqlite.Open(ctx, cfg.TokenDB, cfg.StorageSecret)
	if err != nil {
		return nil, fmt.Errorf("open token store: %w", err)
	}
	credential := session.NewCredential()
	client, err := backend.NewClient(backend.Config{BaseURL: cfg.BaseURL, ProbeURL: cfg.ProbeURL}, credential)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	opts := session.Options{Navigator: screenNavigator{}}
	if token := strings.TrimSpace(cfg.PushToken); token != "" {
		opts.Push = session.StaticPushToken(token)
	}
	return &app{
		cfg:      cfg,
		in:       in,
		out:      out,
		notifier: newNotifier(errOut, i18n.GetCatalog(cfg.Locale)),
		store:    store,
		client:   client,
		manager:  session.NewManager(credential, store, client, opts),
	}, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		log.Printf("familyhub: close token store: %v", err)
	}
}

// dispatch runs one subcommand. Errors are reported through the notifier
// and returned so the process exit code reflects them.
func (a *app) dispatch(ctx context.Context, command string, args []string) error {
	var err error
	switch command {
	case "login":
		err = a.login(ctx, args)
	case "logout":
		err = a.logout(ctx)
	case "whoami":
		err = a.whoami(ctx)
	case "register":
		err = a.register(ctx, args)
	case "families":
		err = a.families(ctx, args)
	case "activities":
		err = a.activities(ctx, args)
	case "chat":
		err = a.chat(ctx, args)
	default:
		printUsage(a.out)
		return fmt.Errorf("unknown command %q", command)
	}
	if err != nil && !errors.Is(err, errUsage) {
		a.notifier.Alert(err)
	}
	return err
}

// restore loads the stored session and fails when nobody is signed in.
func (a *app) restore(ctx context.Context) error {
	if err := a.manager.ValidateToken(ctx); err != nil {
		log.Printf("familyhub: restore session: %v", err)
	}
	if !a.manager.IsAuthenticated() {
		return apperrors.New(apperrors.CodeNotAuthenticated, "sign in first")
	}
	return nil
}

func (a *app) usage(format string) error {
	fmt.Fprintf(a.out, "usage: familyhub %s\n", format)
	return errUsage
}

func (a *app) login(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return a.usage("login EMAIL PASSWORD")
	}
	if err := a.manager.Login(ctx, args[0], args[1]); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "signed in as %s\n", a.manager.Identity().Name)
	return nil
}

func (a *app) logout(ctx context.Context) error {
	if err := a.manager.ValidateToken(ctx); err != nil {
		log.Printf("familyhub: restore session: %v", err)
	}
	if err := a.manager.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "signed out")
	return nil
}

func (a *app) whoami(ctx context.Context) error {
	if err := a.restore(ctx); err != nil {
		return err
	}
	id := a.manager.Identity()
	fmt.Fprintf(a.out, "%s <%s> role=%s expires=%s\n", id.Name, id.ID, id.Role, a.manager.ExpiresAt().Format("2006-01-02 15:04"))
	return nil
}

func (a *app) register(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return a.usage("register NAME EMAIL PASSWORD")
	}
	if err := a.manager.Register(ctx, session.RegisterInput{Name: args[0], Email: args[1], Password: args[2]}); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "account created; sign in with familyhub login")
	return nil
}

func (a *app) families(ctx context.Context, args []string) error {
	if err := a.restore(ctx); err != nil {
		return err
	}
	switch {
	case len(args) == 0:
		families, err := a.client.ListFamilies(ctx)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tMEMBERS")
		for _, f := range families {
			fmt.Fprintf(tw, "%s\t%s\t%d\n", f.ID, f.Name, len(f.Members))
		}
		return tw.Flush()
	case args[0] == "create" && len(args) == 2:
		f, err := a.client.CreateFamily(ctx, args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "created family %s (%s)\n", f.Name, f.ID)
		return nil
	case args[0] == "invite" && len(args) == 3:
		if err := a.client.InviteMember(ctx, args[1], args[2]); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "invited %s\n", args[2])
		return nil
	default:
		return a.usage("families [create NAME | invite FAMILY_ID EMAIL]")
	}
}

func (a *app) activities(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.usage("activities FAMILY_ID [add TITLE [PRIORITY] | status ACTIVITY_ID STATUS]")
	}
	if err := a.restore(ctx); err != nil {
		return err
	}
	familyID, rest := args[0], args[1:]
	switch {
	case len(rest) == 0:
		list, err := a.client.ListActivities(ctx, familyID)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTITLE\tSTATUS\tPRIORITY")
		for _, act := range list {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", act.ID, act.Title, act.Status, act.Priority)
		}
		return tw.Flush()
	case rest[0] == "add" && (len(rest) == 2 || len(rest) == 3):
		in := backend.ActivityInput{FamilyID: familyID, Title: rest[1]}
		if len(rest) == 3 {
			priority, err := backend.ParseActivityPriority(rest[2])
			if err != nil {
				return err
			}
			in.Priority = priority
		}
		act, err := a.client.CreateActivity(ctx, in)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "created activity %s (%s)\n", act.Title, act.ID)
		return nil
	case rest[0] == "status" && len(rest) == 3:
		status, err := backend.ParseActivityStatus(rest[2])
		if err != nil {
			return err
		}
		act, err := a.client.UpdateActivityStatus(ctx, rest[1], status)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s is now %s\n", act.Title, act.Status)
		return nil
	default:
		return a.usage("activities FAMILY_ID [add TITLE [PRIORITY] | status ACTIVITY_ID STATUS]")
	}
}

// screenNavigator stands in for screen routing in a terminal; each
// command prints its own result, so it only records the switch.
type screenNavigator struct{}

func (screenNavigator) ToAuthenticated(id session.Identity) {
	log.Printf("familyhub: navigate screen=home identity=%q", id.ID)
}

func (screenNavigator) ToUnauthenticated() {
	log.Printf("familyhub: navigate screen=login")
}
