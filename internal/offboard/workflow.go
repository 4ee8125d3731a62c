package offboard

import (
	"fmt"

	"github.com/matthewdavidson09/offboardctl/internal/active_directory"
	"github.com/matthewdavidson09/offboardctl/tools"
)

// Directory is the slice of the directory service the workflow mutates.
type Directory interface {
	GetUser(sam string) (*active_directory.ADUser, error)
	Disable(user *active_directory.ADUser) error
	SetDescription(userDN, description string) error
	OUExists(ouDN string) (bool, error)
	Move(userDN, targetOU string) error
	RemoveFromGroup(groupDN, userDN string) error
}

// AddressList toggles address-list visibility in the mail system.
type AddressList interface {
	SetVisibility(email string, visible bool) error
}

// Options are the per-invocation arguments of one offboarding run.
type Options struct {
	User        string
	Ticket      string
	RequestedBy string
	Confirmed   bool
	DryRun      bool
}

// GroupFailure records one group-removal error that did not stop the run.
type GroupFailure struct {
	Group string
	Err   error
}

// Result reports what an offboarding run did (or, under dry-run, would do).
type Result struct {
	User          *active_directory.ADUser
	Description   string
	TargetOU      string
	Moved         bool
	RemovedGroups []string
	SkippedGroups []string
	GroupFailures []GroupFailure
	Hidden        bool
	DryRun        bool
	Warnings      []string
}

func (r *Result) warnf(format string, args ...interface{}) {
	tools.Log.Warnf(format, args...)
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Run executes the offboarding workflow against dir and gal in strict step
// order. Reads always execute; under dry-run every mutation is suppressed
// and logged instead. The run either completes, or returns a *KindError
// describing the first fatal step.
func Run(dir Directory, gal AddressList, cfg Config, opts Options) (*Result, error) {
	if !opts.Confirmed && !opts.DryRun {
		return nil, kindErrorf(KindUnconfirmed,
			"offboarding %s not confirmed: pass --confirm yes or --dry-run", opts.User)
	}

	res := &Result{DryRun: opts.DryRun}

	// Step 1: resolve the identity. Failure here aborts everything.
	user, err := dir.GetUser(opts.User)
	if err != nil {
		return nil, kindErrorf(KindNotFound, "resolving %s: %w", opts.User, err)
	}
	res.User = user

	tools.Log.WithFields(map[string]interface{}{
		"sam":      user.SAMAccountName,
		"location": active_directory.ParentDN(user.DN),
		"name":     user.DisplayName,
		"title":    user.Title,
	}).Info("Offboarding target")

	// Step 2: disable the account.
	if opts.DryRun {
		tools.Log.Infof("[DRY] Disable %s", user.SAMAccountName)
	} else if err := dir.Disable(user); err != nil {
		return nil, kindErrorf(KindInternal, "disabling %s: %w", opts.User, err)
	}

	// Step 3: stamp the description.
	res.Description = BuildDescription(cfg.now(), opts.Ticket, opts.RequestedBy)
	if opts.DryRun {
		tools.Log.Infof("[DRY] Set description %q", res.Description)
	} else if err := dir.SetDescription(user.DN, res.Description); err != nil {
		return nil, kindErrorf(KindInternal, "setting description on %s: %w", opts.User, err)
	}

	// Step 4: derive the archive OU and move if it exists.
	if err := moveToArchive(dir, cfg, user, res, opts.DryRun); err != nil {
		return nil, err
	}

	// Step 5: strip non-excluded group memberships, fault-isolated per group.
	stripGroups(dir, cfg, user, res, opts.DryRun)

	// Step 6: hide from the address list. Failure here is fatal.
	if user.Email == "" {
		return nil, kindErrorf(KindMailSystem,
			"cannot hide %s from address lists: no mail address on the account", opts.User)
	}
	if opts.DryRun {
		tools.Log.Infof("[DRY] Hide %s from address lists", user.Email)
	} else if err := gal.SetVisibility(user.Email, false); err != nil {
		return nil, kindErrorf(KindMailSystem, "hiding %s from address lists: %w", opts.User, err)
	}
	res.Hidden = true

	tools.Log.WithField("sam", user.SAMAccountName).Info("Offboarding complete")
	return res, nil
}

func moveToArchive(dir Directory, cfg Config, user *active_directory.ADUser, res *Result, dryRun bool) error {
	location := active_directory.ParentDN(user.DN)

	target, err := cfg.ArchiveDN(location)
	if err != nil {
		res.warnf("Not moving %s: %v", user.SAMAccountName, err)
		return nil
	}
	res.TargetOU = target

	if active_directory.NormalizeDN(location) == active_directory.NormalizeDN(target) {
		tools.Log.WithField("dn", user.DN).Debug("Already under the archive OU")
		return nil
	}

	exists, err := dir.OUExists(target)
	if err != nil {
		return kindErrorf(KindInternal, "probing archive OU %s: %w", target, err)
	}
	if !exists {
		res.warnf("Archive OU %s does not exist, leaving %s in place", target, user.SAMAccountName)
		return nil
	}

	if dryRun {
		tools.Log.Infof("[DRY] Move %s -> %s", user.DN, target)
		res.Moved = true
		return nil
	}
	if err := dir.Move(user.DN, target); err != nil {
		return kindErrorf(KindInternal, "moving %s: %w", user.SAMAccountName, err)
	}
	// The directory rewrites the linked member values to the new DN, so
	// every later step has to address the user by it.
	user.DN = active_directory.FirstRDN(user.DN) + "," + target
	res.Moved = true
	return nil
}

func stripGroups(dir Directory, cfg Config, user *active_directory.ADUser, res *Result, dryRun bool) {
	for _, groupDN := range user.MemberOf {
		cn := active_directory.RDNValue(groupDN)

		if cfg.IsExcludedGroup(cn) {
			tools.Log.WithField("group", cn).Debug("Skipping excluded group")
			res.SkippedGroups = append(res.SkippedGroups, cn)
			continue
		}

		if dryRun {
			tools.Log.Infof("[DRY] Remove %s from %s", user.SAMAccountName, cn)
			res.RemovedGroups = append(res.RemovedGroups, cn)
			continue
		}

		if err := dir.RemoveFromGroup(groupDN, user.DN); err != nil {
			tools.Log.WithFields(map[string]interface{}{
				"group": cn,
				"error": err,
			}).Warn("Failed to remove group membership")
			res.GroupFailures = append(res.GroupFailures, GroupFailure{Group: cn, Err: err})
			continue
		}

		tools.Log.WithField("group", cn).Debug("Removed group membership")
		res.RemovedGroups = append(res.RemovedGroups, cn)
	}
}
