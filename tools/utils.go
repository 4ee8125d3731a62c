package tools

import (
	"fmt"
	"strconv"
)

// FormatGUID converts a raw objectGUID []byte into a standard Microsoft GUID string
func FormatGUID(b []byte) string {
	if len(b) != 16 {
		return ""
	}
	return fmt.Sprintf("%02x%02x%02x%02x-%02x%02x-%02x%02x-%02x%02x-%02x%02x%02x%02x%02x%02x",
		b[3], b[2], b[1], b[0],
		b[5], b[4],
		b[7], b[6],
		b[8], b[9],
		b[10], b[11], b[12], b[13], b[14], b[15],
	)
}

func DecodeUserAccountControlFlags(uac string) []string {
	flags := map[int]string{
		0x0001:     "SCRIPT",
		0x0002:     "ACCOUNTDISABLE",
		0x0008:     "HOMEDIR_REQUIRED",
		0x0010:     "LOCKOUT",
		0x0020:     "PASSWD_NOTREQD",
		0x0040:     "PASSWD_CANT_CHANGE", // Not reliable on modern systems
		0x0080:     "ENCRYPTED_TEXT_PASSWORD_ALLOWED",
		0x0100:     "TEMP_DUPLICATE_ACCOUNT",
		0x0200:     "NORMAL_ACCOUNT",
		0x0800:     "INTERDOMAIN_TRUST_ACCOUNT",
		0x1000:     "WORKSTATION_TRUST_ACCOUNT",
		0x2000:     "SERVER_TRUST_ACCOUNT",
		0x10000:    "DONT_EXPIRE_PASSWORD",
		0x20000:    "MNS_LOGON_ACCOUNT",
		0x40000:    "SMARTCARD_REQUIRED",
		0x80000:    "TRUSTED_FOR_DELEGATION",
		0x100000:   "NOT_DELEGATED",
		0x200000:   "USE_DES_KEY_ONLY",
		0x400000:   "DONT_REQ_PREAUTH",
		0x800000:   "PASSWORD_EXPIRED",
		0x1000000:  "TRUSTED_TO_AUTH_FOR_DELEGATION",
		0x04000000: "PARTIAL_SECRETS_ACCOUNT",
	}

	var activeFlags []string
	val, err := strconv.Atoi(uac)
	if err != nil {
		return []string{"invalid"}
	}

	for bit, label := range flags {
		if val&bit != 0 {
			activeFlags = append(activeFlags, label)
		}
	}

	return activeFlags
}
