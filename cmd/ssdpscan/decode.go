package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/muurk/ssdpscan/internal/protocol"
	"github.com/muurk/ssdpscan/internal/ui"
	"github.com/muurk/ssdpscan/internal/urls"
)

// Decode command flags
var (
	decodeRaw    bool
	decodeFormat string
)

func init() {
	decodeCmd.Flags().BoolVar(&decodeRaw, "raw", false, "Also print each raw datagram")
	decodeCmd.Flags().StringVar(&decodeFormat, "format", formatDetailed, "Output format (detailed, compact)")

	rootCmd.AddCommand(decodeCmd)
}

// decodeCmd decodes captured SSDP datagrams
var decodeCmd = &cobra.Command{
	Use:   "decode [file|-]",
	Short: "Decode captured SSDP messages",
	Long: `Decode one or more SSDP messages from a file or standard input and print
the typed message each one maps to.

Messages are separated by their blank-line terminator, so a capture holding
several datagrams back to back is decoded in order. A message that fails to
decode is reported and skipped.`,
	Example: `  # Decode a saved datagram
  ssdpscan decode response.txt

  # Decode from a pipe
  printf 'M-SEARCH * HTTP/1.1\r\nHOST:239.255.255.250:1900\r\nMAN:"ssdp:discover"\r\nMX:2\r\nST:ssdp:all\r\n\r\n' | ssdpscan decode -`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDecode,
}

// decodedMessage is one entry of a decoded capture
type decodedMessage struct {
	Index   int
	Raw     []byte
	Message protocol.Message
	Packet  *protocol.Packet
	Err     error
}

func runDecode(cmd *cobra.Command, args []string) error {
	if decodeFormat != formatDetailed && decodeFormat != formatCompact {
		return fmt.Errorf("unknown output format %q (want %s or %s)", decodeFormat, formatDetailed, formatCompact)
	}

	in := cmd.InOrStdin()
	name := "stdin"
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open capture: %w", err)
		}
		defer f.Close()
		in, name = f, args[0]
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}

	messages := decodeAll(data)
	if len(messages) == 0 {
		return fmt.Errorf("no SSDP messages found in %s", name)
	}

	printer := ui.NewPrinter(cmd.OutOrStdout())
	failed := 0
	for _, m := range messages {
		if m.Err != nil {
			failed++
		}
		if decodeFormat == formatCompact {
			printer.Println(compactLine(m))
			continue
		}
		printDecoded(printer, m)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d messages failed to decode", failed, len(messages))
	}
	return nil
}

// decodeAll splits data into messages and decodes each one. Trailing bytes
// without a terminator are reported as an incomplete message unless they are
// only whitespace.
func decodeAll(data []byte) []decodedMessage {
	buf := bytes.NewBuffer(data)
	var out []decodedMessage

	for buf.Len() > 0 {
		if len(bytes.TrimSpace(buf.Bytes())) == 0 {
			break
		}
		// Captures often separate datagrams with extra blank lines.
		trimLeadingNewlines(buf)

		before := append([]byte(nil), buf.Bytes()...)
		p, err := protocol.Decode(buf)
		entry := decodedMessage{Index: len(out) + 1}
		entry.Raw = before[:len(before)-buf.Len()]

		if errors.Is(err, protocol.ErrIncomplete) {
			entry.Raw = before
			entry.Err = err
			out = append(out, entry)
			break
		}
		if err != nil {
			entry.Err = err
			out = append(out, entry)
			continue
		}

		entry.Packet = p
		entry.Message, entry.Err = protocol.FromPacket(p)
		out = append(out, entry)
	}

	return out
}

func trimLeadingNewlines(buf *bytes.Buffer) {
	for buf.Len() > 0 {
		c := buf.Bytes()[0]
		if c != '\r' && c != '\n' {
			return
		}
		buf.Next(1)
	}
}

func compactLine(m decodedMessage) string {
	if m.Err != nil {
		return fmt.Sprintf("#%d %s %v", m.Index, ui.FailureMarker, m.Err)
	}
	return fmt.Sprintf("#%d %s", m.Index, m.Message)
}

func printDecoded(printer *ui.Printer, m decodedMessage) {
	if decodeRaw {
		printer.PrintRaw(fmt.Sprintf("Message #%d (%d bytes)", m.Index, len(m.Raw)), string(m.Raw))
	}

	if m.Err != nil {
		printer.PrintError(fmt.Sprintf("Message #%d", m.Index), m.Err, decodeTroubleshooting(m.Err))
		return
	}

	result := ui.NewSuccessResult(fmt.Sprintf("Message #%d: %s", m.Index, protocol.GetMessageTypeName(m.Message)))
	for _, d := range messageDetails(m.Message) {
		result.AddDetail(d.Key, d.Value)
	}
	printer.PrintResult(result)
}

// messageDetails lists the declared fields of a message in wire order
func messageDetails(msg protocol.Message) []ui.Detail {
	p, err := protocol.ToPacket(msg)
	if err != nil {
		return []ui.Detail{{Key: "Message", Value: msg.String()}}
	}

	details := make([]ui.Detail, 0, p.Headers.Len())
	p.Headers.Each(func(key, value string) {
		if value == "" {
			value = `""`
		}
		details = append(details, ui.Detail{Key: strings.ToUpper(key), Value: value})
	})
	return details
}

func decodeTroubleshooting(err error) []string {
	switch {
	case errors.Is(err, protocol.ErrIncomplete):
		return []string{"The message has no blank-line terminator (CRLF CRLF)", "Check the capture was not truncated"}
	case errors.Is(err, protocol.ErrMalformedRequestLine):
		return []string{"Only M-SEARCH, NOTIFY and HTTP/1.1 200 OK messages are SSDP", "The request line is case-sensitive"}
	case errors.Is(err, protocol.ErrUnrecognizedPacket):
		return []string{"NOTIFY messages other than ssdp:alive are not decoded"}
	case errors.Is(err, protocol.ErrMissingRequiredHeader), errors.Is(err, protocol.ErrMalformedFieldValue):
		return []string{
			"The sender does not follow the UPnP Device Architecture",
			"Decode with --raw to see the headers as received",
			"Header rules: " + urls.DeviceArchitectureSection("1"),
		}
	default:
		return nil
	}
}
