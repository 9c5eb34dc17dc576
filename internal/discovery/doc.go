// Package discovery provides SSDP-based device discovery for UPnP devices.
//
// A discovery session multicasts one M-SEARCH request and then listens for a
// bounded window, folding every search response it receives into a device
// inventory keyed by the device uuid from the USN header.
//
// # Discovery Process
//
// The discovery process works as follows:
//  1. Builds an M-SEARCH (ST ssdp:all by default, MX set to the window)
//  2. Sends it to 239.255.255.250:1900 through the Transport
//  3. Receives datagrams until the window closes
//  4. Decodes each datagram; anything that is not a search response is skipped
//  5. Groups responses by device uuid, one Service per response
//  6. Returns the devices in the order they first answered
//
// # Usage Example
//
//	t, err := transport.NewMulticast(transport.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	defer t.Close()
//
//	scanner := discovery.NewScanner(t)
//	scanner.Window = 2 * time.Second
//	devices, err := scanner.Find(ctx)
//	if err != nil {
//	    return err
//	}
//
//	for _, device := range devices {
//	    fmt.Printf("Found: %s at %s (%d services)\n",
//	        device.UUID, device.Location, len(device.Services))
//	}
//
// # Device Information
//
// Each discovered device includes:
//   - UUID: device id from the USN header
//   - Server: SERVER header of the first response
//   - Address: source address of the first response
//   - Location: description URL (SECURELOCATION.UPNP.ORG when present)
//   - Services: every USN/ST pair received, duplicates included
//
// # Error Handling
//
// Malformed datagrams never abort a session; they are logged at debug level.
// Send and receive failures abort the session with an error wrapping
// ErrTransportFailure. A session that hears nothing returns an empty list.
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Devices must be on the same local network segment (TTL defaults to 4)
// - Firewall must allow inbound UDP replies to the ephemeral search port
//
// # Thread Safety
//
// A Scanner may run one session at a time per Transport. The inventory is
// owned by the collecting goroutine and needs no locking.
package discovery
