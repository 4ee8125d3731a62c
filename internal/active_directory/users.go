package active_directory

import (
	"fmt"
	"strconv"

	"github.com/go-ldap/ldap/v3"
	"github.com/matthewdavidson09/offboardctl/internal/ldapclient"
	"github.com/matthewdavidson09/offboardctl/tools"
)

const accountDisableFlag = 0x2

// ADUser represents a simplified Active Directory user object
type ADUser struct {
	CN             string
	DN             string
	GUID           string
	DisplayName    string
	Title          string
	Description    string
	Email          string
	SAMAccountName string
	Enabled        bool
	UACRaw         int
	UACFlags       []string
	MemberOf       []string
	Photo          []byte
}

var userAttributes = []string{
	"cn", "distinguishedName", "displayName", "title", "description",
	"mail", "userAccountControl", "objectGUID", "memberOf",
	"sAMAccountName", "thumbnailPhoto",
}

// GetUserBySAM resolves a sAMAccountName to a single user object.
func GetUserBySAM(client *ldapclient.LDAPClient, sam string) (*ADUser, error) {
	filter := fmt.Sprintf("(&(objectClass=user)(sAMAccountName=%s))", ldap.EscapeFilter(sam))

	searchReq := ldap.NewSearchRequest(
		client.BaseDN,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		1, 0, false,
		filter,
		userAttributes,
		nil,
	)

	result, err := client.Conn.Search(searchReq)
	if err != nil {
		return nil, fmt.Errorf("LDAP search failed: %w", err)
	}
	if len(result.Entries) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, sam)
	}

	entry := result.Entries[0]
	uac, _ := strconv.Atoi(entry.GetAttributeValue("userAccountControl"))

	return &ADUser{
		CN:             entry.GetAttributeValue("cn"),
		DN:             entry.GetAttributeValue("distinguishedName"),
		GUID:           tools.FormatGUID(entry.GetRawAttributeValue("objectGUID")),
		DisplayName:    entry.GetAttributeValue("displayName"),
		Title:          entry.GetAttributeValue("title"),
		Description:    entry.GetAttributeValue("description"),
		Email:          entry.GetAttributeValue("mail"),
		SAMAccountName: entry.GetAttributeValue("sAMAccountName"),
		Enabled:        uac&accountDisableFlag == 0,
		UACRaw:         uac,
		UACFlags:       tools.DecodeUserAccountControlFlags(entry.GetAttributeValue("userAccountControl")),
		MemberOf:       entry.GetAttributeValues("memberOf"),
		Photo:          entry.GetRawAttributeValue("thumbnailPhoto"),
	}, nil
}

// DisableUser sets the ACCOUNTDISABLE bit on the user's userAccountControl.
// Re-applying it to an already disabled account writes the same value back.
func DisableUser(client *ldapclient.LDAPClient, user *ADUser) error {
	newUAC := user.UACRaw | accountDisableFlag

	modReq := ldap.NewModifyRequest(user.DN, nil)
	modReq.Replace("userAccountControl", []string{strconv.Itoa(newUAC)})

	if err := client.Conn.Modify(modReq); err != nil {
		return fmt.Errorf("failed to disable %s: %w", user.SAMAccountName, err)
	}

	tools.Log.WithField("dn", user.DN).Debug("Account disabled")
	return nil
}

// SetDescription replaces the user's description attribute.
func SetDescription(client *ldapclient.LDAPClient, userDN, description string) error {
	modReq := ldap.NewModifyRequest(userDN, nil)
	modReq.Replace("description", []string{description})

	if err := client.Conn.Modify(modReq); err != nil {
		return fmt.Errorf("failed to set description on %s: %w", userDN, err)
	}

	return nil
}

// MoveUser relocates the user under targetOU, keeping its existing RDN.
func MoveUser(client *ldapclient.LDAPClient, userDN, targetOU string) error {
	rdn := FirstRDN(userDN)
	if rdn == "" {
		return fmt.Errorf("cannot extract RDN from DN: %s", userDN)
	}

	modDNReq := ldap.NewModifyDNRequest(userDN, rdn, true, targetOU)
	if err := client.Conn.ModifyDN(modDNReq); err != nil {
		return fmt.Errorf("failed to move %s to %s: %w", userDN, targetOU, err)
	}

	tools.Log.WithFields(map[string]interface{}{
		"dn":     userDN,
		"target": targetOU,
	}).Debug("Moved user object")
	return nil
}

// OUExists probes whether ouDN resolves to a real organizationalUnit node.
func OUExists(client *ldapclient.LDAPClient, ouDN string) (bool, error) {
	searchReq := ldap.NewSearchRequest(
		ouDN,
		ldap.ScopeBaseObject,
		ldap.NeverDerefAliases,
		1, 0, false,
		"(objectClass=organizationalUnit)",
		[]string{"ou"},
		nil,
	)

	result, err := client.Conn.Search(searchReq)
	if err != nil {
		if ldapErr, ok := err.(*ldap.Error); ok && ldapErr.ResultCode == ldap.LDAPResultNoSuchObject {
			return false, nil
		}
		return false, fmt.Errorf("failed to probe OU %s: %w", ouDN, err)
	}

	return len(result.Entries) > 0, nil
}

// GetUserPhoto returns the raw thumbnailPhoto bytes for the user.
func GetUserPhoto(client *ldapclient.LDAPClient, sam string) ([]byte, error) {
	user, err := GetUserBySAM(client, sam)
	if err != nil {
		return nil, err
	}
	if len(user.Photo) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoPhoto, sam)
	}
	return user.Photo, nil
}

// SetUserPhoto replaces the user's thumbnailPhoto attribute with data.
func SetUserPhoto(client *ldapclient.LDAPClient, userDN string, data []byte) error {
	modReq := ldap.NewModifyRequest(userDN, nil)
	modReq.Replace("thumbnailPhoto", []string{string(data)})

	if err := client.Conn.Modify(modReq); err != nil {
		return fmt.Errorf("failed to set thumbnailPhoto on %s: %w", userDN, err)
	}

	tools.Log.WithFields(map[string]interface{}{
		"dn":    userDN,
		"bytes": len(data),
	}).Debug("Stored thumbnail photo")
	return nil
}
