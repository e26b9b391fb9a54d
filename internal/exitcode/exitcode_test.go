package exitcode_test

import (
	"errors"
	"fmt"
	"testing"

	"taskdeck/internal/exitcode"
	"taskdeck/internal/service"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, exitcode.Success},
		{"unauthorized", &service.Error{Kind: service.KindServer, Status: 401, Message: "Unauthorized"}, exitcode.AuthError},
		{"forbidden wrapped", fmt.Errorf("whoami: %w", &service.Error{Kind: service.KindServer, Status: 403}), exitcode.AuthError},
		{"not found", &service.Error{Kind: service.KindServer, Status: 404}, exitcode.BackendError},
		{"network", &service.Error{Kind: service.KindNetwork}, exitcode.BackendError},
		{"plain", errors.New("boom"), exitcode.BackendError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitcode.FromError(tt.err); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}
