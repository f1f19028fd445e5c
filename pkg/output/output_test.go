package output_test

import (
	"bytes"
	"encoding/json"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/pflag"

	"github.com/linctl/linctl/pkg/output"
)

func record(pairs ...any) map[string]any {
	m := map[string]any{}
	for i := 0; i+1 < len(pairs); i += 2 {
		m[pairs[i].(string)] = pairs[i+1]
	}
	return m
}

var _ = Describe("Flags", func() {
	It("parses the full list flag set", func() {
		fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
		var flags output.Flags
		flags.RegisterList(fs)

		err := fs.Parse([]string{
			"--output", "json",
			"--filter", "state.name=Done",
			"--filter", "assignee.name=Ada",
			"--sort", "priority",
			"--order", "desc",
			"--limit", "10",
			"--all",
		})
		Expect(err).NotTo(HaveOccurred())

		opts, err := flags.Options("table", 50)
		Expect(err).NotTo(HaveOccurred())
		Expect(opts.Format).To(Equal(output.FormatJSON))
		Expect(opts.Filters).To(Equal([]output.Filter{
			{Path: "state.name", Value: "Done"},
			{Path: "assignee.name", Value: "Ada"},
		}))
		Expect(opts.SortKey).To(Equal("priority"))
		Expect(opts.Order).To(Equal("desc"))
		Expect(opts.Limit).To(Equal(10))
		Expect(opts.All).To(BeTrue())
	})

	It("falls back to config defaults for format and limit", func() {
		var flags output.Flags
		opts, err := flags.Options("ndjson", 25)
		Expect(err).NotTo(HaveOccurred())
		Expect(opts.Format).To(Equal(output.FormatNDJSON))
		Expect(opts.Limit).To(Equal(25))
	})

	It("rejects an unknown output format", func() {
		flags := output.Flags{Output: "yaml"}
		_, err := flags.Options("table", 50)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("invalid output format"))
	})

	It("rejects a malformed filter", func() {
		flags := output.Flags{Filters: []string{"nonsense"}}
		_, err := flags.Options("table", 50)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("expected field=value"))
	})
})

var _ = Describe("ApplyFilters", func() {
	records := []any{
		record("id", "1", "state", record("name", "Done")),
		record("id", "2", "state", record("name", "Todo")),
		record("id", "3", "state", record("name", "Done")),
	}

	It("keeps records matching a dotted path equality", func() {
		kept := output.ApplyFilters(records, []output.Filter{{Path: "state.name", Value: "Done"}})
		Expect(kept).To(HaveLen(2))
	})

	It("drops records missing the path", func() {
		kept := output.ApplyFilters(records, []output.Filter{{Path: "assignee.name", Value: "Ada"}})
		Expect(kept).To(BeEmpty())
	})
})

var _ = Describe("SortRecords", func() {
	It("sorts numerically when values parse as numbers", func() {
		records := []any{
			record("n", float64(10)),
			record("n", float64(2)),
			record("n", float64(1)),
		}
		output.SortRecords(records, "n", "asc")
		Expect(records[0].(map[string]any)["n"]).To(Equal(float64(1)))
		Expect(records[2].(map[string]any)["n"]).To(Equal(float64(10)))
	})

	It("reverses with desc", func() {
		records := []any{
			record("name", "alpha"),
			record("name", "gamma"),
			record("name", "beta"),
		}
		output.SortRecords(records, "name", "desc")
		Expect(records[0].(map[string]any)["name"]).To(Equal("gamma"))
		Expect(records[2].(map[string]any)["name"]).To(Equal("alpha"))
	})
})

var _ = Describe("PrintJSON", func() {
	It("pretty-prints by default", func() {
		var buf bytes.Buffer
		err := output.PrintJSON(record("id", "1"), output.Options{Writer: &buf})
		Expect(err).NotTo(HaveOccurred())
		Expect(buf.String()).To(ContainSubstring("\n  \"id\": \"1\"\n"))
	})

	It("minifies with Compact", func() {
		var buf bytes.Buffer
		err := output.PrintJSON(record("id", "1"), output.Options{Writer: &buf, Compact: true})
		Expect(err).NotTo(HaveOccurred())
		Expect(strings.TrimSpace(buf.String())).To(Equal(`{"id":"1"}`))
	})

	It("projects dotted fields keyed by their path", func() {
		var buf bytes.Buffer
		err := output.PrintJSON([]any{
			record("identifier", "ENG-1", "state", record("name", "Done"), "title", "dropped"),
		}, output.Options{
			Writer:  &buf,
			Compact: true,
			Fields:  []string{"identifier", "state.name"},
		})
		Expect(err).NotTo(HaveOccurred())

		var decoded []map[string]any
		Expect(json.Unmarshal(buf.Bytes(), &decoded)).To(Succeed())
		Expect(decoded).To(HaveLen(1))
		Expect(decoded[0]).To(Equal(map[string]any{
			"identifier": "ENG-1",
			"state.name": "Done",
		}))
	})
})

var _ = Describe("PrintNDJSON", func() {
	It("writes one compact line per record", func() {
		var buf bytes.Buffer
		err := output.PrintNDJSON([]any{
			record("id", "1"),
			record("id", "2"),
		}, output.Options{Writer: &buf})
		Expect(err).NotTo(HaveOccurred())

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		Expect(lines).To(Equal([]string{`{"id":"1"}`, `{"id":"2"}`}))
	})
})

var _ = Describe("PrintTable", func() {
	columns := []output.Column{
		{Header: "ID", Path: "identifier"},
		{Header: "TITLE", Path: "title"},
	}

	It("aligns columns and includes the header", func() {
		var buf bytes.Buffer
		err := output.PrintTable([]any{
			record("identifier", "ENG-1", "title", "Fix the build"),
			record("identifier", "ENG-1234", "title", "Ship"),
		}, columns, output.Options{Writer: &buf})
		Expect(err).NotTo(HaveOccurred())

		lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
		Expect(lines).To(HaveLen(3))
		Expect(lines[0]).To(ContainSubstring("ID"))
		Expect(lines[0]).To(ContainSubstring("TITLE"))
		Expect(lines[1]).To(HavePrefix("ENG-1     "))
		Expect(lines[2]).To(HavePrefix("ENG-1234  "))
	})

	It("truncates cells beyond the width cap", func() {
		var buf bytes.Buffer
		err := output.PrintTable([]any{
			record("identifier", "ENG-1", "title", "a very long title that keeps going"),
		}, columns, output.Options{Writer: &buf, Width: 10})
		Expect(err).NotTo(HaveOccurred())
		Expect(buf.String()).To(ContainSubstring("a very ..."))
		Expect(buf.String()).NotTo(ContainSubstring("keeps going"))
	})

	It("prints a placeholder for zero records", func() {
		var buf bytes.Buffer
		err := output.PrintTable(nil, columns, output.Options{Writer: &buf})
		Expect(err).NotTo(HaveOccurred())
		Expect(buf.String()).To(ContainSubstring("No results."))
	})
})

var _ = Describe("PrintRecords", func() {
	columns := []output.Column{{Header: "ID", Path: "id"}}

	It("routes json format to the JSON printer without filtering", func() {
		var buf bytes.Buffer
		err := output.PrintRecords([]any{record("id", "1"), record("id", "2")}, columns, output.Options{
			Writer:  &buf,
			Format:  output.FormatJSON,
			Compact: true,
			Filters: []output.Filter{{Path: "id", Value: "1"}},
		})
		Expect(err).NotTo(HaveOccurred())

		var decoded []map[string]any
		Expect(json.Unmarshal(buf.Bytes(), &decoded)).To(Succeed())
		Expect(decoded).To(HaveLen(2))
	})

	It("filters and sorts on the table path", func() {
		var buf bytes.Buffer
		err := output.PrintRecords([]any{
			record("id", "2", "keep", "yes"),
			record("id", "3", "keep", "no"),
			record("id", "1", "keep", "yes"),
		}, columns, output.Options{
			Writer:  &buf,
			Format:  output.FormatTable,
			Filters: []output.Filter{{Path: "keep", Value: "yes"}},
			SortKey: "id",
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(buf.String()).NotTo(ContainSubstring("3"))
		first := strings.Index(buf.String(), "1")
		second := strings.Index(buf.String(), "2")
		Expect(first).To(BeNumerically("<", second))
	})
})
