package active_directory

import (
	"fmt"

	"github.com/go-ldap/ldap/v3"
	"github.com/matthewdavidson09/offboardctl/internal/ldapclient"
)

// RemoveUserFromGroup removes a user (by DN) from the group's "member" attribute.
func RemoveUserFromGroup(client *ldapclient.LDAPClient, groupDN, userDN string) error {
	modReq := ldap.NewModifyRequest(groupDN, nil)
	modReq.Delete("member", []string{userDN})

	if err := client.Conn.Modify(modReq); err != nil {
		return fmt.Errorf("failed to remove user %s from group %s: %w", userDN, groupDN, err)
	}

	return nil
}
