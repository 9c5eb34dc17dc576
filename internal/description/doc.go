// Package description fetches and decodes UPnP device description documents.
//
// Every SSDP search response carries a LOCATION header pointing at an XML
// document that describes the device: its type, vendor, model, embedded
// devices and the services each of them offers. This package turns that
// document into typed Go values.
//
// # Types
//
// DeviceType, ServiceType, ServiceID and UniqueDeviceName parse the URN and
// UDN grammars used by the document and implement encoding.TextUnmarshaler,
// so encoding/xml validates them while decoding. A value that does not match
// its grammar produces a *FieldError.
//
// # Usage Example
//
//	client := description.NewClient()
//	desc, err := client.Describe(ctx, device.Location)
//	if err != nil {
//	    fmt.Println(description.GetShortErrorMessage(err))
//	    return err
//	}
//	fmt.Print(desc.FormatTree())
//
// # Error Handling
//
// Describe returns a *FetchError classifying the failure (timeout, refused
// connection, DNS, HTTP status, parse). Network errors and 5xx responses are
// retried with exponential backoff; the others are returned immediately.
// GetTroubleshootingHint turns an error into advice for the terminal.
package description
