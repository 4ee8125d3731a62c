package offboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsExcludedGroup(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		cn   string
		want bool
	}{
		{"Domain Users", true},
		{"domain users", true},
		{"All Employees", true},
		{"AllUserObjects_Printers", true},
		{"alluserobjects", true},
		{"Finance Team", false},
		{"Domain Users Extra", false},
		{"SomeAllUserObjects", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, cfg.IsExcludedGroup(tt.cn), "cn=%s", tt.cn)
	}
}
