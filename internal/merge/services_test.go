package merge

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const existingServices = `<?xml version="1.0" ?>
<container xmlns="http://symfony.com/schema/dic/services"
    xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
  <services>
    <service id="svc.a" class="Acme\A">
        <argument type="service" id="logger"/>
        <tag name="kernel.event_subscriber"/>
    </service>
    <!-- hand written -->
    <service id="svc.manual" class="Acme\Manual"/>
  </services>
</container>
`

const incomingServices = `<?xml version="1.0" encoding="UTF-8"?>
<container xmlns="http://symfony.com/schema/dic/services">
    <services>
        <service id="svc.a" class="Acme\Replaced">
            <argument>changed</argument>
        </service>
        <service id="svc.b" class="Acme\B">
            <tag name="shopware.scheduled.task"/>
        </service>
    </services>
</container>
`

func TestServiceRegistryMerger_ExistingWins(t *testing.T) {
	merged, err := (&ServiceRegistryMerger{}).Merge([]byte(existingServices), []byte(incomingServices))
	require.NoError(t, err)

	doc, err := ParseServiceDocument(merged)
	require.NoError(t, err)

	assert.Equal(t, []string{"svc.a", "svc.manual", "svc.b"}, doc.IDs())

	out := string(merged)
	assert.Contains(t, out, `<service id="svc.a" class="Acme\A">
        <argument type="service" id="logger"/>
        <tag name="kernel.event_subscriber"/>
    </service>`, "existing entry must be preserved byte-for-byte")
	assert.NotContains(t, out, "Acme\\Replaced")
	assert.Contains(t, out, `<tag name="shopware.scheduled.task"/>`)
}

func TestServiceRegistryMerger_CanonicalRoot(t *testing.T) {
	merged, err := (&ServiceRegistryMerger{}).Merge([]byte(existingServices), []byte(incomingServices))
	require.NoError(t, err)

	out := string(merged)
	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, out, `xsi:schemaLocation="http://symfony.com/schema/dic/services https://symfony.com/schema/dic/services/services-1.0.xsd"`)
	assert.True(t, strings.HasSuffix(out, "    </services>\n</container>\n"))
}

func TestServiceRegistryMerger_Deterministic(t *testing.T) {
	m := &ServiceRegistryMerger{}

	first, err := m.Merge([]byte(existingServices), []byte(incomingServices))
	require.NoError(t, err)
	second, err := m.Merge([]byte(existingServices), []byte(incomingServices))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestServiceRegistryMerger_RemergeIsStable(t *testing.T) {
	m := &ServiceRegistryMerger{}

	once, err := m.Merge([]byte(existingServices), []byte(incomingServices))
	require.NoError(t, err)
	twice, err := m.Merge(once, []byte(incomingServices))
	require.NoError(t, err)

	assert.Equal(t, string(once), string(twice))
}

func TestMergeServiceDocuments_Scenario(t *testing.T) {
	existing := &ServiceDocument{Entries: []ServiceEntry{
		{Tag: "service", ID: "svc.a", Raw: []byte(`<service id="svc.a"><argument>old</argument></service>`)},
	}}
	incoming := &ServiceDocument{Entries: []ServiceEntry{
		{Tag: "service", ID: "svc.a", Raw: []byte(`<service id="svc.a"><argument>new</argument></service>`)},
		{Tag: "service", ID: "svc.b", Raw: []byte(`<service id="svc.b"/>`)},
	}}

	merged := MergeServiceDocuments(existing, incoming)

	require.Len(t, merged.Entries, 2)
	assert.Equal(t, "svc.a", merged.Entries[0].ID)
	assert.Equal(t, existing.Entries[0].Raw, merged.Entries[0].Raw)
	assert.Equal(t, "svc.b", merged.Entries[1].ID)
}

func TestMergeServiceDocuments_EmptyIDNeverDeduplicated(t *testing.T) {
	anon := ServiceEntry{Tag: "service", Raw: []byte(`<service class="Acme\Anon"/>`)}
	existing := &ServiceDocument{Entries: []ServiceEntry{anon}}
	incoming := &ServiceDocument{Entries: []ServiceEntry{anon, anon}}

	merged := MergeServiceDocuments(existing, incoming)

	assert.Len(t, merged.Entries, 3)
}

func TestMergeServiceDocuments_DuplicateIDsCollapse(t *testing.T) {
	existing := &ServiceDocument{Entries: []ServiceEntry{
		{Tag: "service", ID: "x", Raw: []byte(`<service id="x" class="First"/>`)},
		{Tag: "service", ID: "x", Raw: []byte(`<service id="x" class="Second"/>`)},
	}}

	merged := MergeServiceDocuments(existing, &ServiceDocument{})

	require.Len(t, merged.Entries, 1)
	assert.Contains(t, string(merged.Entries[0].Raw), "First")
}

func TestMergeServiceDocuments_Defaults(t *testing.T) {
	defaults := ServiceEntry{Tag: "defaults", Raw: []byte(`<defaults autowire="true"/>`)}
	existing := &ServiceDocument{Entries: []ServiceEntry{defaults}}
	incoming := &ServiceDocument{Entries: []ServiceEntry{
		defaults,
		{Tag: "defaults", Raw: []byte(`<defaults public="true"/>`)},
	}}

	merged := MergeServiceDocuments(existing, incoming)

	assert.Len(t, merged.Entries, 2)
}

func TestParseServiceDocument_Sections(t *testing.T) {
	doc, err := ParseServiceDocument([]byte(`<container xmlns="http://symfony.com/schema/dic/services">
    <imports>
        <import resource="other.xml"/>
    </imports>
    <parameters>
        <parameter key="acme.flag">true</parameter>
    </parameters>
    <services>
        <service id="one"/>
    </services>
</container>`))
	require.NoError(t, err)

	require.Len(t, doc.Sections, 2)
	assert.Equal(t, "imports", doc.Sections[0].Tag)
	assert.Equal(t, "parameters", doc.Sections[1].Tag)
	assert.Equal(t, []string{"one"}, doc.IDs())

	out := string(doc.Bytes())
	assert.Contains(t, out, `<parameter key="acme.flag">true</parameter>`)
	assert.Less(t, strings.Index(out, "<imports>"), strings.Index(out, "<services>"))
}

func TestParseServiceDocument_ByteOrderMark(t *testing.T) {
	withBOM := "\xEF\xBB\xBF" + existingServices

	doc, err := ParseServiceDocument([]byte(withBOM))
	require.NoError(t, err)
	assert.Equal(t, []string{"svc.a", "svc.manual"}, doc.IDs())

	merged, err := (&ServiceRegistryMerger{}).Merge([]byte(withBOM), []byte(incomingServices))
	require.NoError(t, err)
	assert.Contains(t, string(merged), `id="svc.b"`)
}

func TestMergeServiceDocuments_WhenSectionsPerEnv(t *testing.T) {
	existing, err := ParseServiceDocument([]byte(`<container>
    <when env="dev">
        <services>
            <service id="dev.a"/>
        </services>
    </when>
    <services/>
</container>`))
	require.NoError(t, err)

	incoming, err := ParseServiceDocument([]byte(`<container>
    <when env="dev">
        <services>
            <service id="dev.other"/>
        </services>
    </when>
    <when env="test">
        <services>
            <service id="test.b"/>
        </services>
    </when>
    <services/>
</container>`))
	require.NoError(t, err)

	merged := MergeServiceDocuments(existing, incoming)

	require.Len(t, merged.Sections, 2)
	assert.Equal(t, "dev", merged.Sections[0].Env)
	assert.Equal(t, "test", merged.Sections[1].Env)

	out := string(merged.Bytes())
	assert.Contains(t, out, `id="dev.a"`)
	assert.NotContains(t, out, `id="dev.other"`)
	assert.Contains(t, out, `id="test.b"`)
}

func TestParseServiceDocument_NestedServicesIgnored(t *testing.T) {
	doc, err := ParseServiceDocument([]byte(`<container>
    <services>
        <service id="outer">
            <argument type="service">
                <service class="Inline"/>
            </argument>
        </service>
    </services>
</container>`))
	require.NoError(t, err)

	assert.Equal(t, []string{"outer"}, doc.IDs())
}

func TestParseServiceDocument_NoServicesBlock(t *testing.T) {
	doc, err := ParseServiceDocument([]byte(`<container/>`))
	require.NoError(t, err)

	assert.Empty(t, doc.Entries)
	assert.Contains(t, string(doc.Bytes()), "<services>\n    </services>")
}

func TestParseServiceDocument_Malformed(t *testing.T) {
	tests := []struct {
		name string
		xml  string
	}{
		{"empty", ""},
		{"whitespace", "   \n"},
		{"unclosed", `<container><services><service id="a">`},
		{"mismatched", `<container><services></service></container>`},
		{"wrong root", `<routes><route id="a"/></routes>`},
		{"two roots", `<container/><container/>`},
		{"text after root", `<container/>garbage`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseServiceDocument([]byte(tt.xml))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedDocument), "got %v", err)
		})
	}
}

func TestServiceRegistryMerger_MalformedSideFails(t *testing.T) {
	m := &ServiceRegistryMerger{}

	_, err := m.Merge([]byte("<container><services>"), []byte(incomingServices))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedDocument))
	assert.Contains(t, err.Error(), "existing document")

	_, err = m.Merge([]byte(existingServices), []byte("not xml at all <"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedDocument))
	assert.Contains(t, err.Error(), "incoming document")
}
