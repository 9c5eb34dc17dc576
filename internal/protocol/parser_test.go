package protocol

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Captured from real devices on a home network.
var (
	azureusNotify = crlf(
		"NOTIFY * HTTP/1.1",
		"Host: 239.255.255.250:1900",
		"Cache-Control: max-age=3600",
		"Location: http://192.168.7.238:49152/description.xml",
		"NT: urn:schemas-upnp-org:device:MediaServer:1",
		"NTS: ssdp:alive",
		"Server: Azureus/5.7.6.0 UPnP/1.0 Azureus/5.7.6.0",
		"USN: uuid:07853410-ccef-9e3c-de6a-410b371182eb::urn:schemas-upnp-org:device:MediaServer:1",
		"SEARCHPORT.UPNP.ORG: 11120",
		"", "")

	chromiumSearch = crlf(
		"M-SEARCH * HTTP/1.1",
		"HOST: 239.255.255.250:1900",
		`MAN: "ssdp:discover"`,
		"MX: 1",
		"ST: urn:dial-multiscreen-org:service:dial:1",
		"USER-AGENT: Chromium/81.0.4044.138 Linux",
		"", "")

	eeroResponse = crlf(
		"HTTP/1.1 200 OK",
		"CACHE-CONTROL: max-age=1800",
		"DATE: Mon, 25 May 2020 02:39:02 GMT",
		"EXT:",
		"LOCATION: http://192.168.7.1:1900/igd.xml",
		"SERVER: eeroOS/latest UPnP/1.0 eero/latest",
		"ST: uuid:fcdb9233-a63f-41da-b42c-7cfeb99c8adf",
		"USN: uuid:fcdb9233-a63f-41da-b42c-7cfeb99c8adf",
		"", "")
)

func ref[T any](v T) *T { return &v }

func TestUnmarshal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Message
	}{
		{
			name:  "notify alive",
			input: azureusNotify,
			want: &Available{
				Host:             "239.255.255.250:1900",
				CacheControl:     "max-age=3600",
				Location:         "http://192.168.7.238:49152/description.xml",
				NotificationType: DeviceTarget("MediaServer", "1"),
				Server:           "Azureus/5.7.6.0 UPnP/1.0 Azureus/5.7.6.0",
				USN: UniqueServiceName{
					UUID:   "07853410-ccef-9e3c-de6a-410b371182eb",
					Target: ref(DeviceTarget("MediaServer", "1")),
				},
				SearchPort: ref(uint16(11120)),
			},
		},
		{
			name:  "m-search",
			input: chromiumSearch,
			want: &MSearch{
				Host:      "239.255.255.250:1900",
				MaxWait:   ref(uint8(1)),
				Target:    VendorServiceTarget("dial-multiscreen-org", "dial", "1"),
				UserAgent: "Chromium/81.0.4044.138 Linux",
			},
		},
		{
			name:  "search response",
			input: eeroResponse,
			want: &SearchResponse{
				CacheControl: "max-age=1800",
				Date:         "Mon, 25 May 2020 02:39:02 GMT",
				Location:     "http://192.168.7.1:1900/igd.xml",
				Server:       "eeroOS/latest UPnP/1.0 eero/latest",
				Target:       UUIDTarget("fcdb9233-a63f-41da-b42c-7cfeb99c8adf"),
				USN:          UniqueServiceName{UUID: "fcdb9233-a63f-41da-b42c-7cfeb99c8adf"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Unmarshal([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnmarshalErrors(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantKind   error
		wantHeader string
	}{
		{
			name:       "response without location",
			input:      crlf("HTTP/1.1 200 OK", "CACHE-CONTROL:max-age=1", "EXT:", "SERVER:x", "ST:ssdp:all", "USN:uuid:abc", "", ""),
			wantKind:   ErrMissingRequiredHeader,
			wantHeader: "location",
		},
		{
			name:       "search with mx out of range",
			input:      crlf("M-SEARCH * HTTP/1.1", "HOST:h", `MAN:"ssdp:discover"`, "MX:300", "ST:ssdp:all", "", ""),
			wantKind:   ErrMalformedFieldValue,
			wantHeader: "mx",
		},
		{
			name:       "search with wrong man",
			input:      crlf("M-SEARCH * HTTP/1.1", "HOST:h", "MAN:ssdp:alive", "ST:ssdp:all", "", ""),
			wantKind:   ErrMalformedFieldValue,
			wantHeader: "man",
		},
		{
			name:       "response with non-empty ext",
			input:      crlf("HTTP/1.1 200 OK", "CACHE-CONTROL:max-age=1", "LOCATION:l", "EXT:yes", "SERVER:x", "ST:ssdp:all", "USN:uuid:abc", "", ""),
			wantKind:   ErrMalformedFieldValue,
			wantHeader: "ext",
		},
		{
			name:       "notify with bad usn",
			input:      crlf("NOTIFY * HTTP/1.1", "HOST:h", "CACHE-CONTROL:c", "LOCATION:l", "NT:upnp:rootdevice", "NTS:ssdp:alive", "SERVER:s", "USN:usn:abc", "", ""),
			wantKind:   ErrMalformedFieldValue,
			wantHeader: "usn",
		},
		{
			name:     "notify byebye",
			input:    crlf("NOTIFY * HTTP/1.1", "HOST:h", "NT:upnp:rootdevice", "NTS:ssdp:byebye", "USN:uuid:abc", "", ""),
			wantKind: ErrUnrecognizedPacket,
		},
		{
			name:     "notify without nts",
			input:    crlf("NOTIFY * HTTP/1.1", "HOST:h", "NT:upnp:rootdevice", "USN:uuid:abc", "", ""),
			wantKind: ErrUnrecognizedPacket,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tt.input))
			require.ErrorIs(t, err, tt.wantKind)

			var perr *Error
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.wantHeader, perr.Header)
		})
	}
}

func TestMalformedFieldValueCarriesRawValue(t *testing.T) {
	_, err := Unmarshal([]byte(crlf("M-SEARCH * HTTP/1.1", "HOST:h", `MAN:"ssdp:discover"`, "MX:abc", "ST:ssdp:all", "", "")))

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "abc", perr.Value)
	assert.Contains(t, err.Error(), `mx="abc"`)
}

func TestMarshalRoundTrip(t *testing.T) {
	messages := []Message{
		&MSearch{
			Host:             MulticastAddress,
			CacheControl:     "no-cache",
			MaxWait:          ref(uint8(3)),
			Target:           SearchAll(),
			UserAgent:        "linux/6.1 UPnP/2.0 ssdpscan/1.0.0",
			TCPPort:          ref(uint16(49152)),
			FriendlyName:     "ssdpscan",
			ControlPointUUID: "0d4fb8a6-63a4-4a4f-a1a4-7d5f0b7f1b3e",
		},
		&Available{
			Host:             MulticastAddress,
			CacheControl:     "max-age=3600",
			Location:         "http://10.0.0.2/desc.xml",
			SecureLocation:   "https://10.0.0.2/desc.xml",
			NotificationType: RootDeviceTarget(),
			Server:           "Linux/5.0 UPnP/2.0 test/1",
			USN:              UniqueServiceName{UUID: "abc", Target: ref(RootDeviceTarget())},
			BootID:           ref(int32(-7)),
			ConfigID:         ref(int32(12)),
			SearchPort:       ref(uint16(1901)),
		},
		&SearchResponse{
			CacheControl: "max-age=1800",
			Location:     "http://192.168.7.1:1900/igd.xml",
			Server:       "eeroOS/latest UPnP/1.0 eero/latest",
			Target:       OtherTarget("roku:ecp"),
			USN:          UniqueServiceName{UUID: "fcdb9233-a63f-41da-b42c-7cfeb99c8adf", Target: ref(OtherTarget("roku:ecp"))},
			BootID:       ref(int32(0)),
		},
	}

	for _, m := range messages {
		t.Run(GetMessageTypeName(m), func(t *testing.T) {
			data, err := Marshal(m)
			require.NoError(t, err)

			got, err := Unmarshal(data)
			require.NoError(t, err)
			assert.Equal(t, m, got)
		})
	}
}

func TestFromPacketToPacketRoundTrip(t *testing.T) {
	for _, input := range []string{azureusNotify, chromiumSearch, eeroResponse} {
		p, err := DecodeDatagram([]byte(input))
		require.NoError(t, err)

		m, err := FromPacket(p)
		require.NoError(t, err)

		back, err := ToPacket(m)
		require.NoError(t, err)
		assert.Equal(t, p.Headers.Map(), back.Headers.Map())
	}
}

func TestToPacketOmitsUnsetOptionals(t *testing.T) {
	p, err := ToPacket(&SearchResponse{
		CacheControl: "max-age=1800",
		Location:     "http://h/d.xml",
		Server:       "s",
		USN:          UniqueServiceName{UUID: "abc"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"CACHE-CONTROL", "LOCATION", "EXT", "SERVER", "ST", "USN"}, p.Headers.Keys())
	assert.Equal(t, "", p.Headers.Value("ext"))
	assert.Equal(t, "ssdp:all", p.Headers.Value("st"))
}

func TestToPacketAddsDiscriminant(t *testing.T) {
	p, err := ToPacket(&Available{USN: UniqueServiceName{UUID: "abc"}})
	require.NoError(t, err)
	assert.Equal(t, PacketNotify, p.Type)
	assert.Equal(t, NTSAlive, p.Headers.Value("nts"))
}

type strayMessage struct{}

func (strayMessage) Type() PacketType { return PacketOK }
func (strayMessage) String() string   { return "stray" }

func TestToPacketUnknownMessage(t *testing.T) {
	_, err := ToPacket(strayMessage{})
	assert.ErrorIs(t, err, ErrUnknownMessage)
}

func TestDecodeMessageStream(t *testing.T) {
	buf := bytes.NewBufferString(eeroResponse[:40])

	_, err := DecodeMessage(buf)
	require.ErrorIs(t, err, ErrIncomplete)

	buf.WriteString(eeroResponse[40:])
	m, err := DecodeMessage(buf)
	require.NoError(t, err)
	assert.IsType(t, &SearchResponse{}, m)
}

func TestValidateVariants(t *testing.T) {
	assert.NoError(t, validateVariants(variants))

	t.Run("two variants without discriminant", func(t *testing.T) {
		a := &variant{name: "a", packet: PacketOK}
		b := &variant{name: "b", packet: PacketOK}
		assert.Error(t, validateVariants([]*variant{a, b}))
	})

	t.Run("same discriminant", func(t *testing.T) {
		a := &variant{name: "a", packet: PacketNotify, match: &discriminant{header: "NTS", value: "ssdp:alive"}}
		b := &variant{name: "b", packet: PacketNotify, match: &discriminant{header: "nts", value: "ssdp:alive"}}
		assert.Error(t, validateVariants([]*variant{a, b}))
	})

	t.Run("distinct discriminants", func(t *testing.T) {
		a := &variant{name: "a", packet: PacketNotify, match: &discriminant{header: "NTS", value: "ssdp:alive"}}
		b := &variant{name: "b", packet: PacketNotify, match: &discriminant{header: "NTS", value: "ssdp:byebye"}}
		assert.NoError(t, validateVariants([]*variant{a, b}))
	})

	t.Run("header mapped twice", func(t *testing.T) {
		a := &variant{name: "a", packet: PacketOK, fields: []field{{header: "ST"}, {header: "st"}}}
		assert.Error(t, validateVariants([]*variant{a}))
	})
}

func TestMessageStrings(t *testing.T) {
	m, err := Unmarshal([]byte(chromiumSearch))
	require.NoError(t, err)
	assert.Equal(t, "MSearch{st=urn:dial-multiscreen-org:service:dial:1, mx=1}", m.String())
	assert.Equal(t, "m-search", GetMessageTypeName(m))
}

func TestDescriptionURLPrefersSecureLocation(t *testing.T) {
	r := &SearchResponse{Location: "http://a/d.xml"}
	assert.Equal(t, "http://a/d.xml", r.DescriptionURL())

	r.SecureLocation = "https://a/d.xml"
	assert.Equal(t, "https://a/d.xml", r.DescriptionURL())
}

func TestUnmarshalMinimalSearch(t *testing.T) {
	datagram := "M-SEARCH * HTTP/1.1\r\n" +
		"HOST: 239.255.255.250:1900\r\n" +
		"ST: ssdp:all\r\n" +
		"MAN: \"ssdp:discover\"\r\n" +
		"MX: 2\r\n\r\n"

	m, err := Unmarshal([]byte(datagram))
	require.NoError(t, err)
	assert.Equal(t, &MSearch{
		Host:    MulticastAddress,
		MaxWait: ref(uint8(2)),
		Target:  SearchAll(),
	}, m)
}
