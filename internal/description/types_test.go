package description

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDeviceType(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    DeviceType
		wantErr bool
	}{
		{
			name:  "standard",
			input: "urn:schemas-upnp-org:device:deviceType:ver",
			want:  DeviceType{Type: "deviceType", Version: "ver"},
		},
		{
			name:  "vendor",
			input: "urn:domain-name:device:deviceType:ver",
			want:  DeviceType{VendorDomain: "domain-name", Type: "deviceType", Version: "ver"},
		},
		{name: "service urn", input: "urn:schemas-upnp-org:service:Layer3Forwarding:1", wantErr: true},
		{name: "too short", input: "urn:non-matching:service:value", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "empty version", input: "urn:schemas-upnp-org:device:Basic:", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDeviceType(tt.input)
			if tt.wantErr {
				var fe *FieldError
				require.ErrorAs(t, err, &fe)
				assert.Equal(t, "deviceType", fe.Field)
				assert.Equal(t, tt.input, fe.Value)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.input, got.String())
		})
	}
}

func TestParseServiceType(t *testing.T) {
	got, err := ParseServiceType("urn:schemas-upnp-org:service:WANIPConnection:2")
	require.NoError(t, err)
	assert.Equal(t, ServiceType{Type: "WANIPConnection", Version: "2"}, got)

	got, err = ParseServiceType("urn:dial-multiscreen-org:service:dial:1")
	require.NoError(t, err)
	assert.Equal(t, ServiceType{VendorDomain: "dial-multiscreen-org", Type: "dial", Version: "1"}, got)
	assert.Equal(t, "urn:dial-multiscreen-org:service:dial:1", got.String())

	_, err = ParseServiceType("urn:schemas-upnp-org:device:Basic:1")
	assert.ErrorContains(t, err, "serviceType")
}

func TestParseServiceID(t *testing.T) {
	tests := []struct {
		input   string
		want    ServiceID
		wantErr bool
	}{
		{input: "urn:upnp-org:serviceId:L3Forwarding1", want: ServiceID{ID: "L3Forwarding1"}},
		{input: "urn:dial-multiscreen-org:serviceId:dial", want: ServiceID{VendorDomain: "dial-multiscreen-org", ID: "dial"}},
		{input: "urn:upnp-org:serviceType:L3Forwarding1", wantErr: true},
		{input: "urn:upnp-org:serviceId:", wantErr: true},
		{input: "L3Forwarding1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseServiceID(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.input, got.String())
		})
	}
}

func TestParseUniqueDeviceName(t *testing.T) {
	got, err := ParseUniqueDeviceName("uuid:fcdb9233-a63f-41da-b42c-7cfeb99c8adf")
	require.NoError(t, err)
	assert.Equal(t, "fcdb9233-a63f-41da-b42c-7cfeb99c8adf", got.UUID)

	got, err = ParseUniqueDeviceName("uuid:")
	require.NoError(t, err)
	assert.Empty(t, got.UUID)

	_, err = ParseUniqueDeviceName("fcdb9233-a63f-41da-b42c-7cfeb99c8adf")
	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "UDN", fe.Field)
}

func TestTypes_UnmarshalTextTrimsWhitespace(t *testing.T) {
	var dt DeviceType
	require.NoError(t, dt.UnmarshalText([]byte("\n  urn:schemas-upnp-org:device:MediaRenderer:1\n")))
	assert.Equal(t, "MediaRenderer", dt.Type)

	text, err := dt.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "urn:schemas-upnp-org:device:MediaRenderer:1", string(text))
}
