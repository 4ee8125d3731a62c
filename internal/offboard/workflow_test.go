package offboard

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthewdavidson09/offboardctl/internal/active_directory"
)

type fakeDirectory struct {
	user      *active_directory.ADUser
	getErr    error
	ouExists  bool
	removeErr map[string]error
	// memberDN is the value groups hold for the user. When set, Move
	// rewrites it the way the directory rewrites linked member values,
	// and removals naming any other DN are rejected.
	memberDN string

	getCalls     int
	disableCalls int
	descriptions []string
	probedOUs    []string
	movedTo      []string
	removedFrom  []string
}

func (f *fakeDirectory) GetUser(sam string) (*active_directory.ADUser, error) {
	f.getCalls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.user, nil
}

func (f *fakeDirectory) Disable(user *active_directory.ADUser) error {
	f.disableCalls++
	return nil
}

func (f *fakeDirectory) SetDescription(userDN, description string) error {
	f.descriptions = append(f.descriptions, description)
	return nil
}

func (f *fakeDirectory) OUExists(ouDN string) (bool, error) {
	f.probedOUs = append(f.probedOUs, ouDN)
	return f.ouExists, nil
}

func (f *fakeDirectory) Move(userDN, targetOU string) error {
	f.movedTo = append(f.movedTo, targetOU)
	if f.memberDN != "" {
		f.memberDN = active_directory.FirstRDN(userDN) + "," + targetOU
	}
	return nil
}

func (f *fakeDirectory) RemoveFromGroup(groupDN, userDN string) error {
	if err, ok := f.removeErr[groupDN]; ok {
		return err
	}
	if f.memberDN != "" && userDN != f.memberDN {
		return fmt.Errorf("no such member value on %s: %s", groupDN, userDN)
	}
	f.removedFrom = append(f.removedFrom, groupDN)
	return nil
}

type fakeAddressList struct {
	err   error
	calls []string
}

func (f *fakeAddressList) SetVisibility(email string, visible bool) error {
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, email)
	return nil
}

func testUser(groups ...string) *active_directory.ADUser {
	return &active_directory.ADUser{
		CN:             "Jane Smith",
		DN:             "CN=Jane Smith,OU=Staff,OU=Users,DC=corp,DC=example,DC=com",
		DisplayName:    "Jane Smith",
		Title:          "Accountant",
		Email:          "jsmith@corp.example.com",
		SAMAccountName: "jsmith",
		Enabled:        true,
		MemberOf:       groups,
	}
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Now = func() time.Time { return time.Date(2024, 3, 7, 10, 0, 0, 0, time.UTC) }
	return cfg
}

func confirmedOpts() Options {
	return Options{User: "jsmith", Ticket: "INC-4711", RequestedBy: "hr ops", Confirmed: true}
}

func TestRunUnconfirmedMakesNoCalls(t *testing.T) {
	dir := &fakeDirectory{user: testUser()}
	gal := &fakeAddressList{}

	opts := confirmedOpts()
	opts.Confirmed = false

	_, err := Run(dir, gal, testConfig(), opts)

	var kerr *KindError
	require.ErrorAs(t, err, &kerr)
	assert.Equal(t, KindUnconfirmed, kerr.Kind)

	assert.Zero(t, dir.getCalls)
	assert.Zero(t, dir.disableCalls)
	assert.Empty(t, dir.descriptions)
	assert.Empty(t, dir.movedTo)
	assert.Empty(t, dir.removedFrom)
	assert.Empty(t, gal.calls)
}

func TestRunFullSequence(t *testing.T) {
	dir := &fakeDirectory{
		user: testUser(
			"CN=Finance Team,OU=Groups,DC=corp,DC=example,DC=com",
			"CN=Domain Users,CN=Users,DC=corp,DC=example,DC=com",
			"CN=AllUserObjects_Printers,OU=Groups,DC=corp,DC=example,DC=com",
			"CN=VPN Access,OU=Groups,DC=corp,DC=example,DC=com",
		),
		ouExists: true,
	}
	gal := &fakeAddressList{}

	res, err := Run(dir, gal, testConfig(), confirmedOpts())
	require.NoError(t, err)

	assert.Equal(t, 1, dir.disableCalls)

	require.Len(t, dir.descriptions, 1)
	assert.Equal(t, "Disabled 07.03.2024 / Ticket#: INC-4711 / Requested by: Hr Ops", dir.descriptions[0])

	require.Len(t, dir.movedTo, 1)
	assert.Equal(t, "OU=NoLongerEmployed,OU=Users,DC=corp,DC=example,DC=com", dir.movedTo[0])
	assert.True(t, res.Moved)

	assert.ElementsMatch(t, []string{
		"CN=Finance Team,OU=Groups,DC=corp,DC=example,DC=com",
		"CN=VPN Access,OU=Groups,DC=corp,DC=example,DC=com",
	}, dir.removedFrom)
	assert.ElementsMatch(t, []string{"Domain Users", "AllUserObjects_Printers"}, res.SkippedGroups)

	assert.Equal(t, []string{"jsmith@corp.example.com"}, gal.calls)
	assert.True(t, res.Hidden)
}

func TestRunRemovesGroupsByPostMoveDN(t *testing.T) {
	// After the archive move the groups hold the user's new DN, so the
	// removals must name it, not the pre-move snapshot.
	user := testUser(
		"CN=Finance Team,OU=Groups,DC=corp,DC=example,DC=com",
		"CN=VPN Access,OU=Groups,DC=corp,DC=example,DC=com",
	)
	dir := &fakeDirectory{user: user, ouExists: true, memberDN: user.DN}
	gal := &fakeAddressList{}

	res, err := Run(dir, gal, testConfig(), confirmedOpts())
	require.NoError(t, err)

	require.Len(t, dir.movedTo, 1)
	assert.Empty(t, res.GroupFailures)
	assert.Len(t, dir.removedFrom, 2)
	assert.Equal(t, "CN=Jane Smith,OU=NoLongerEmployed,OU=Users,DC=corp,DC=example,DC=com", res.User.DN)
}

func TestRunNeverRemovesExcludedGroups(t *testing.T) {
	dir := &fakeDirectory{
		user: testUser(
			"CN=Domain Users,CN=Users,DC=corp,DC=example,DC=com",
			"CN=All Employees,OU=Groups,DC=corp,DC=example,DC=com",
			"CN=AllUserObjects_VPN,OU=Groups,DC=corp,DC=example,DC=com",
		),
		ouExists: true,
	}
	gal := &fakeAddressList{}

	res, err := Run(dir, gal, testConfig(), confirmedOpts())
	require.NoError(t, err)

	assert.Empty(t, dir.removedFrom)
	assert.Empty(t, res.RemovedGroups)
	assert.Len(t, res.SkippedGroups, 3)
}

func TestRunGroupRemovalFailureIsIsolated(t *testing.T) {
	dir := &fakeDirectory{
		user: testUser(
			"CN=Finance Team,OU=Groups,DC=corp,DC=example,DC=com",
			"CN=VPN Access,OU=Groups,DC=corp,DC=example,DC=com",
			"CN=Wiki Editors,OU=Groups,DC=corp,DC=example,DC=com",
		),
		ouExists: true,
		removeErr: map[string]error{
			"CN=VPN Access,OU=Groups,DC=corp,DC=example,DC=com": errors.New("insufficient access rights"),
		},
	}
	gal := &fakeAddressList{}

	res, err := Run(dir, gal, testConfig(), confirmedOpts())
	require.NoError(t, err)

	assert.Len(t, dir.removedFrom, 2)
	require.Len(t, res.GroupFailures, 1)
	assert.Equal(t, "VPN Access", res.GroupFailures[0].Group)

	// The visibility step still ran.
	assert.Equal(t, []string{"jsmith@corp.example.com"}, gal.calls)
}

func TestRunHideFailureIsFatal(t *testing.T) {
	dir := &fakeDirectory{user: testUser(), ouExists: true}
	gal := &fakeAddressList{err: errors.New("no mailbox is set up")}

	res, err := Run(dir, gal, testConfig(), confirmedOpts())
	require.Nil(t, res)

	var kerr *KindError
	require.ErrorAs(t, err, &kerr)
	assert.Equal(t, KindMailSystem, kerr.Kind)
}

func TestRunMissingArchiveOUWarnsAndContinues(t *testing.T) {
	dir := &fakeDirectory{user: testUser(), ouExists: false}
	gal := &fakeAddressList{}

	res, err := Run(dir, gal, testConfig(), confirmedOpts())
	require.NoError(t, err)

	assert.Empty(t, dir.movedTo)
	assert.False(t, res.Moved)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "does not exist")
	assert.True(t, res.Hidden)
}

func TestRunUnderivableLocationWarnsAndContinues(t *testing.T) {
	user := testUser()
	user.DN = "CN=Jane Smith,OU=Staff,DC=corp,DC=example,DC=com"
	dir := &fakeDirectory{user: user, ouExists: true}
	gal := &fakeAddressList{}

	res, err := Run(dir, gal, testConfig(), confirmedOpts())
	require.NoError(t, err)

	assert.Empty(t, dir.probedOUs)
	assert.Empty(t, dir.movedTo)
	require.Len(t, res.Warnings, 1)
}

func TestRunSecondInvocationIsIdempotent(t *testing.T) {
	// After a first run the account sits under the archive OU and only
	// excluded memberships remain.
	user := testUser("CN=Domain Users,CN=Users,DC=corp,DC=example,DC=com")
	user.DN = "CN=Jane Smith,OU=NoLongerEmployed,OU=Users,DC=corp,DC=example,DC=com"
	user.Enabled = false
	dir := &fakeDirectory{user: user, ouExists: true}
	gal := &fakeAddressList{}

	res, err := Run(dir, gal, testConfig(), confirmedOpts())
	require.NoError(t, err)

	assert.Empty(t, dir.removedFrom)
	assert.Empty(t, dir.movedTo)
	// Location already matches the derived target, so not even a probe runs.
	assert.Empty(t, dir.probedOUs)
	assert.True(t, res.Hidden)
}

func TestRunDryRunSuppressesMutations(t *testing.T) {
	dir := &fakeDirectory{
		user:     testUser("CN=Finance Team,OU=Groups,DC=corp,DC=example,DC=com"),
		ouExists: true,
	}

	opts := confirmedOpts()
	opts.Confirmed = false
	opts.DryRun = true

	res, err := Run(dir, nil, testConfig(), opts)
	require.NoError(t, err)

	assert.Zero(t, dir.disableCalls)
	assert.Empty(t, dir.descriptions)
	assert.Empty(t, dir.movedTo)
	assert.Empty(t, dir.removedFrom)

	// The plan is still reported.
	assert.True(t, res.DryRun)
	assert.True(t, res.Moved)
	assert.Equal(t, []string{"Finance Team"}, res.RemovedGroups)
}

func TestRunUnknownUserIsFatal(t *testing.T) {
	dir := &fakeDirectory{getErr: active_directory.ErrUserNotFound}
	gal := &fakeAddressList{}

	_, err := Run(dir, gal, testConfig(), confirmedOpts())

	var kerr *KindError
	require.ErrorAs(t, err, &kerr)
	assert.Equal(t, KindNotFound, kerr.Kind)
	assert.ErrorIs(t, err, active_directory.ErrUserNotFound)

	assert.Zero(t, dir.disableCalls)
	assert.Empty(t, gal.calls)
}

func TestRunNoMailAddressIsFatal(t *testing.T) {
	user := testUser()
	user.Email = ""
	dir := &fakeDirectory{user: user, ouExists: true}

	_, err := Run(dir, &fakeAddressList{}, testConfig(), confirmedOpts())

	var kerr *KindError
	require.ErrorAs(t, err, &kerr)
	assert.Equal(t, KindMailSystem, kerr.Kind)
}
