package stream_test

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hexlockco/alembic/pkg/stream"
)

func TestStream(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Stream Suite")
}

// collect runs a decoder over the input and records every callback event.
func collect(input string) (string, error, []stream.Event) {
	var events []stream.Event
	d := stream.NewDecoder(strings.NewReader(input), func(ev stream.Event) {
		events = append(events, ev)
	})
	result, err := d.Run()
	return result, err, events
}

func kinds(events []stream.Event) []stream.Kind {
	out := make([]stream.Kind, len(events))
	for i, ev := range events {
		out[i] = ev.Kind
	}
	return out
}

var _ = Describe("Decoder", func() {
	Describe("Run", func() {
		It("decodes a single JSON content chunk", func() {
			result, err, events := collect("data: {\"content\":\"hello\"}\n")
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal("hello"))
			Expect(events).To(HaveLen(1))
			Expect(events[0].Kind).To(Equal(stream.KindContent))
			Expect(events[0].Text).To(Equal("hello"))
		})

		It("concatenates chunks in arrival order", func() {
			input := "data: {\"content\":\"one \"}\n" +
				"data: {\"content\":\"two \"}\n" +
				"data: {\"content\":\"three\"}\n"
			result, err, events := collect(input)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal("one two three"))
			Expect(kinds(events)).To(Equal([]stream.Kind{
				stream.KindContent, stream.KindContent, stream.KindContent,
			}))
		})

		It("emits a completion status on the [DONE] sentinel and stops reading", func() {
			input := "data: [DONE]\n" +
				"data: {\"content\":\"after the end\"}\n"
			result, err, events := collect(input)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(BeEmpty())
			Expect(events).To(HaveLen(1))
			Expect(events[0].Kind).To(Equal(stream.KindStatus))
			Expect(events[0].Text).To(ContainSubstring("complete"))
		})

		It("terminates at the first [DONE] with the text accumulated before it", func() {
			input := "data: {\"content\":\"kept\"}\n" +
				"data: [DONE]\n" +
				"data: {\"content\":\"dropped\"}\n"
			result, err, events := collect(input)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal("kept"))
			Expect(kinds(events)).To(Equal([]stream.Kind{
				stream.KindContent, stream.KindStatus,
			}))
		})

		It("falls back to plain text with a trailing space for non-JSON payloads", func() {
			result, err, events := collect("data: plain text\n")
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal("plain text "))
			Expect(events).To(HaveLen(1))
			Expect(events[0].Kind).To(Equal(stream.KindContent))
			Expect(events[0].Text).To(Equal("plain text "))
		})

		It("ignores empty lines and lines without the data prefix", func() {
			input := "\n" +
				": keep-alive comment\n" +
				"event: message\n" +
				"data: {\"content\":\"payload\"}\n" +
				"\n"
			result, err, events := collect(input)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal("payload"))
			Expect(events).To(HaveLen(1))
		})

		It("ignores JSON objects without a content field", func() {
			input := "data: {\"id\":\"chunk-1\"}\n" +
				"data: {\"content\":\"real\"}\n"
			result, err, events := collect(input)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal("real"))
			Expect(events).To(HaveLen(1))
		})

		It("preserves an explicitly empty content field without emitting text", func() {
			result, err, events := collect("data: {\"content\":\"\"}\n")
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(BeEmpty())
			Expect(events).To(HaveLen(1))
			Expect(events[0].Kind).To(Equal(stream.KindContent))
		})

		It("skips a malformed line and keeps decoding subsequent lines", func() {
			input := "data: \xff\xfe broken\n" +
				"data: {\"content\":\"survives\"}\n"
			result, err, events := collect(input)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal("survives"))
			Expect(kinds(events)).To(Equal([]stream.Kind{
				stream.KindError, stream.KindContent,
			}))
		})

		It("returns the partial result and one error event on a read failure", func() {
			readErr := errors.New("connection reset")
			src := io.MultiReader(
				strings.NewReader("data: {\"content\":\"partial\"}\n"),
				iotest.ErrReader(readErr),
			)

			var events []stream.Event
			d := stream.NewDecoder(src, func(ev stream.Event) {
				events = append(events, ev)
			})

			result, err := d.Run()
			Expect(err).To(MatchError(readErr))
			Expect(result).To(Equal("partial"))
			Expect(kinds(events)).To(Equal([]stream.Kind{
				stream.KindContent, stream.KindError,
			}))
			Expect(events[1].Text).To(ContainSubstring("connection reset"))
			Expect(d.Result()).To(Equal("partial"))
		})

		It("accepts a nil callback", func() {
			d := stream.NewDecoder(strings.NewReader("data: {\"content\":\"quiet\"}\n"), nil)
			result, err := d.Run()
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal("quiet"))
		})

		It("returns an empty result for an empty stream", func() {
			result, err, events := collect("")
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(BeEmpty())
			Expect(events).To(BeEmpty())
		})
	})
})
