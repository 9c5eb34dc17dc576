package description

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const renderer = `<?xml version="1.0" encoding="utf-8"?>
<root xmlns="urn:schemas-upnp-org:device-1-0" configId="1337">
  <specVersion><major>2</major><minor>0</minor></specVersion>
  <device>
    <deviceType>urn:schemas-upnp-org:device:MediaRenderer:1</deviceType>
    <friendlyName>Living Room TV</friendlyName>
    <manufacturer>Acme</manufacturer>
    <modelName>Screen 55</modelName>
    <modelNumber>S55</modelNumber>
    <serialNumber>0042</serialNumber>
    <UDN>uuid:2fac1234-31f8-11b4-a222-08002b34c003</UDN>
    <serviceList>
      <service>
        <serviceType>urn:schemas-upnp-org:service:AVTransport:1</serviceType>
        <serviceId>urn:upnp-org:serviceId:AVTransport</serviceId>
        <SCPDURL>AVTransport/scpd.xml</SCPDURL>
        <controlURL>AVTransport/control</controlURL>
        <eventSubURL>AVTransport/event</eventSubURL>
      </service>
      <service>
        <serviceType>urn:dial-multiscreen-org:service:dial:1</serviceType>
        <serviceId>urn:dial-multiscreen-org:serviceId:dial</serviceId>
        <SCPDURL>/dial.xml</SCPDURL>
        <controlURL>/dial/control</controlURL>
        <eventSubURL>/dial/event</eventSubURL>
      </service>
    </serviceList>
    <presentationURL>/</presentationURL>
  </device>
</root>`

func TestParse_RouterDocument(t *testing.T) {
	f, err := os.Open("testdata/igd.xml")
	require.NoError(t, err)
	defer f.Close()

	desc, err := Parse(f)
	require.NoError(t, err)

	assert.Empty(t, desc.ConfigID)
	assert.Equal(t, SpecVersion{Major: 1, Minor: 0}, desc.SpecVersion)

	root := desc.Device
	assert.Equal(t, DeviceType{Type: "InternetGatewayDevice", Version: "1"}, root.DeviceType)
	assert.Empty(t, root.FriendlyName)
	assert.Empty(t, root.UDN.UUID)
	require.Len(t, root.Services, 1)
	assert.Equal(t, Service{
		ServiceType: ServiceType{Type: "Layer3Forwarding", Version: "1"},
		ServiceID:   ServiceID{ID: "L3Forwarding1"},
		SCPDURL:     "/l3f.xml",
		ControlURL:  "/l3f",
		EventSubURL: "/l3f/events",
	}, root.Services[0])

	require.Len(t, root.Devices, 1)
	wan := root.Devices[0]
	assert.Equal(t, "WANDevice", wan.DeviceType.Type)
	require.Len(t, wan.Devices, 1)
	conn := wan.Devices[0]
	assert.Equal(t, "WANConnectionDevice", conn.DeviceType.Type)
	assert.Empty(t, conn.Devices)
	require.Len(t, conn.Services, 1)
	assert.Equal(t, "WANIPConnection", conn.Services[0].ServiceID.ID)

	assert.Len(t, root.AllServices(), 3)
}

func TestParse_VendorDocument(t *testing.T) {
	desc, err := Parse(strings.NewReader(renderer))
	require.NoError(t, err)

	assert.Equal(t, "1337", desc.ConfigID)
	assert.Equal(t, "2.0", desc.SpecVersion.String())
	assert.Equal(t, "Living Room TV", desc.Device.FriendlyName)
	assert.Equal(t, "2fac1234-31f8-11b4-a222-08002b34c003", desc.Device.UDN.UUID)
	require.Len(t, desc.Device.Services, 2)
	assert.Equal(t, ServiceType{VendorDomain: "dial-multiscreen-org", Type: "dial", Version: "1"}, desc.Device.Services[1].ServiceType)
	assert.Empty(t, Validate(desc))
}

func TestParse_LatinOneDocument(t *testing.T) {
	doc := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n" +
		"<root><specVersion><major>1</major><minor>0</minor></specVersion><device>" +
		"<deviceType>urn:schemas-upnp-org:device:Basic:1</deviceType>" +
		"<friendlyName>Caf\xe9 Speaker</friendlyName><manufacturer>Acme</manufacturer>" +
		"<UDN>uuid:1</UDN></device></root>"

	desc, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, "Café Speaker", desc.Device.FriendlyName)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name      string
		doc       string
		wantField string
	}{
		{
			name:      "malformed device type",
			doc:       `<root><device><deviceType>MediaRenderer</deviceType></device></root>`,
			wantField: "deviceType",
		},
		{
			name:      "missing device type",
			doc:       `<root><device><friendlyName>x</friendlyName></device></root>`,
			wantField: "deviceType",
		},
		{
			name:      "udn without prefix",
			doc:       `<root><device><deviceType>urn:schemas-upnp-org:device:Basic:1</deviceType><UDN>1234</UDN></device></root>`,
			wantField: "UDN",
		},
		{
			name: "service without id",
			doc: `<root><device><deviceType>urn:schemas-upnp-org:device:Basic:1</deviceType>` +
				`<serviceList><service><serviceType>urn:schemas-upnp-org:service:X:1</serviceType></service></serviceList>` +
				`</device></root>`,
			wantField: "serviceId",
		},
		{
			name: "embedded device with bad service id",
			doc: `<root><device><deviceType>urn:schemas-upnp-org:device:Basic:1</deviceType><deviceList><device>` +
				`<deviceType>urn:schemas-upnp-org:device:Basic:1</deviceType>` +
				`<serviceList><service><serviceType>urn:schemas-upnp-org:service:X:1</serviceType>` +
				`<serviceId>X</serviceId></service></serviceList>` +
				`</device></deviceList></device></root>`,
			wantField: "serviceId",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.doc))
			var fe *FieldError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.wantField, fe.Field)
		})
	}
}

func TestParse_NotXML(t *testing.T) {
	_, err := Parse(strings.NewReader(`{"device": "json"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode description")
}

func TestValidate_ListsEmptyElements(t *testing.T) {
	f, err := os.Open("testdata/igd.xml")
	require.NoError(t, err)
	defer f.Close()

	desc, err := Parse(f)
	require.NoError(t, err)

	// friendlyName, manufacturer and UDN on each of the three devices
	assert.Len(t, Validate(desc), 9)
}

func TestResolveURL(t *testing.T) {
	tests := []struct {
		name     string
		urlBase  string
		location string
		ref      string
		want     string
	}{
		{
			name:     "relative to location",
			location: "http://192.168.7.40:49153/desc/root.xml",
			ref:      "AVTransport/scpd.xml",
			want:     "http://192.168.7.40:49153/desc/AVTransport/scpd.xml",
		},
		{
			name:     "absolute path",
			location: "http://192.168.7.40:49153/desc/root.xml",
			ref:      "/dial.xml",
			want:     "http://192.168.7.40:49153/dial.xml",
		},
		{
			name:     "url base wins",
			urlBase:  "http://192.168.7.1:5000/",
			location: "http://192.168.7.1:1900/igd.xml",
			ref:      "/l3f.xml",
			want:     "http://192.168.7.1:5000/l3f.xml",
		},
		{
			name:     "already absolute",
			location: "http://192.168.7.1:1900/igd.xml",
			ref:      "https://example.com/scpd.xml",
			want:     "https://example.com/scpd.xml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc := &Description{URLBase: tt.urlBase}
			got, err := desc.ResolveURL(tt.location, tt.ref)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDevice_FindDevice(t *testing.T) {
	root := Device{
		UDN: UniqueDeviceName{UUID: "root"},
		Devices: []Device{
			{UDN: UniqueDeviceName{UUID: "child"}, Devices: []Device{{UDN: UniqueDeviceName{UUID: "grandchild"}}}},
		},
	}

	found, ok := root.FindDevice(UniqueDeviceName{UUID: "grandchild"})
	require.True(t, ok)
	assert.Equal(t, "grandchild", found.UDN.UUID)

	_, ok = root.FindDevice(UniqueDeviceName{UUID: "missing"})
	assert.False(t, ok)
}
