package urls

// Reference documents linked from troubleshooting output

// DeviceArchitecture is the UPnP Device Architecture 2.0, which defines SSDP
// message headers and the device description document.
const DeviceArchitecture = "https://openconnectivity.org/upnp-specs/UPnP-arch-DeviceArchitecture-v2.0-20200417.pdf"

// DeviceArchitectureSection returns a pointer into the architecture document
// for the given section, e.g. "1.3.2" for search responses.
func DeviceArchitectureSection(section string) string {
	return "UPnP Device Architecture 2.0 section " + section + " (" + DeviceArchitecture + ")"
}
