package offboard

import (
	"github.com/matthewdavidson09/offboardctl/internal/active_directory"
	"github.com/matthewdavidson09/offboardctl/internal/ldapclient"
)

// LDAPDirectory adapts a bound LDAP client to the Directory interface.
type LDAPDirectory struct {
	Client *ldapclient.LDAPClient
}

func (d *LDAPDirectory) GetUser(sam string) (*active_directory.ADUser, error) {
	return active_directory.GetUserBySAM(d.Client, sam)
}

func (d *LDAPDirectory) Disable(user *active_directory.ADUser) error {
	return active_directory.DisableUser(d.Client, user)
}

func (d *LDAPDirectory) SetDescription(userDN, description string) error {
	return active_directory.SetDescription(d.Client, userDN, description)
}

func (d *LDAPDirectory) OUExists(ouDN string) (bool, error) {
	return active_directory.OUExists(d.Client, ouDN)
}

func (d *LDAPDirectory) Move(userDN, targetOU string) error {
	return active_directory.MoveUser(d.Client, userDN, targetOU)
}

func (d *LDAPDirectory) RemoveFromGroup(groupDN, userDN string) error {
	return active_directory.RemoveUserFromGroup(d.Client, groupDN, userDN)
}
