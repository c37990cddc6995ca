package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestTrustedSubnetMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		trustedSubnet  string
		clientIP       string
		expectedStatus int
	}{
		{name: "Subnet not configured", trustedSubnet: "", clientIP: "192.168.1.100", expectedStatus: http.StatusForbidden},
		{name: "Invalid CIDR", trustedSubnet: "invalid-cidr", clientIP: "192.168.1.100", expectedStatus: http.StatusForbidden},
		{name: "Missing X-Real-IP", trustedSubnet: "192.168.1.0/24", clientIP: "", expectedStatus: http.StatusForbidden},
		{name: "Invalid IP", trustedSubnet: "192.168.1.0/24", clientIP: "invalid-ip", expectedStatus: http.StatusForbidden},
		{name: "IP outside subnet", trustedSubnet: "192.168.1.0/24", clientIP: "10.0.0.1", expectedStatus: http.StatusForbidden},
		{name: "IP inside subnet", trustedSubnet: "192.168.1.0/24", clientIP: "192.168.1.100", expectedStatus: http.StatusOK},
		{name: "Single host allowed", trustedSubnet: "192.168.1.100/32", clientIP: "192.168.1.100", expectedStatus: http.StatusOK},
		{name: "Single host denied", trustedSubnet: "192.168.1.100/32", clientIP: "192.168.1.101", expectedStatus: http.StatusForbidden},
		{name: "IPv6 inside subnet", trustedSubnet: "2001:db8::/32", clientIP: "2001:db8::1", expectedStatus: http.StatusOK},
		{name: "IPv6 outside subnet", trustedSubnet: "2001:db8::/32", clientIP: "2001:db9::1", expectedStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := TrustedSubnetMiddleware(tt.trustedSubnet, zap.NewNop())(
				http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
					_, _ = w.Write([]byte("OK"))
				}))

			req := httptest.NewRequest(http.MethodGet, "/api/internal/stats", nil)
			if tt.clientIP != "" {
				req.Header.Set("X-Real-IP", tt.clientIP)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, "OK", rr.Body.String())
			} else {
				assert.Equal(t, "Access denied\n", rr.Body.String())
			}
		})
	}
}
