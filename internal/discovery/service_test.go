package discovery

import "testing"

func TestService_BaseURL(t *testing.T) {
	tests := []struct {
		name string
		svc  Service
		want string
	}{
		{
			name: "default path",
			svc:  Service{IP: "192.168.4.16", Port: 3000},
			want: "http://192.168.4.16:3000/api",
		},
		{
			name: "txt path and scheme",
			svc:  Service{IP: "10.0.0.5", Port: 443, Metadata: map[string]string{"path": "/installer/api/", "scheme": "https"}},
			want: "https://10.0.0.5:443/installer/api",
		},
		{
			name: "root path",
			svc:  Service{IP: "10.0.0.5", Port: 80, Metadata: map[string]string{"path": "/"}},
			want: "http://10.0.0.5:80",
		},
		{
			name: "ipv6",
			svc:  Service{IP: "fe80::1", Port: 80},
			want: "http://[fe80::1]:80/api",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.svc.BaseURL(); got != tt.want {
				t.Errorf("BaseURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestService_String(t *testing.T) {
	svc := &Service{Instance: "agama on install-01", Hostname: "install-01.local.", IP: "192.168.4.16", Port: 80}
	want := "agama on install-01 (install-01.local) at 192.168.4.16:80"
	if got := svc.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestService_GetMetadata(t *testing.T) {
	svc := &Service{}
	if got := svc.GetMetadata("path"); got != "" {
		t.Errorf("GetMetadata() on nil map = %q", got)
	}
	svc.Metadata = map[string]string{"version": "9"}
	if got := svc.GetMetadata("version"); got != "9" {
		t.Errorf("GetMetadata(version) = %q, want 9", got)
	}
}
