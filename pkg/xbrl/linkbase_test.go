package xbrl_test

import (
	"strings"
	"testing"

	"github.com/aethiopicuschan/xbrl-go/pkg/xbrl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePresentationLinkbase = `<?xml version="1.0" encoding="UTF-8"?>
<link:linkbase xmlns:link="http://www.xbrl.org/2003/linkbase"
               xmlns:xlink="http://www.w3.org/1999/xlink">
  <link:presentationLink xlink:type="extended" xlink:role="http://example.com/role/Balance">
    <link:loc xlink:type="locator" xlink:href="core.xsd#Assets" xlink:label="assets"/>
    <link:loc xlink:type="locator" xlink:href="core.xsd#CurrentAssets" xlink:label="currentAssets"/>
    <link:presentationArc xlink:type="arc" xlink:from="assets" xlink:to="currentAssets"
                           xlink:arcrole="http://www.xbrl.org/2003/arcrole/parent-child"
                           order="1" priority="0" use="optional"/>
  </link:presentationLink>
</link:linkbase>`

func TestParseLinkbase_Presentation(t *testing.T) {
	t.Parallel()

	lb, err := xbrl.ParseLinkbase(strings.NewReader(samplePresentationLinkbase), "core-pre.xml", xbrl.LinkbaseUnknown)
	require.NoError(t, err)
	require.NotNil(t, lb)

	assert.Equal(t, xbrl.LinkbasePresentation, lb.Type)
	require.Len(t, lb.Links, 1)

	link := lb.Links[0]
	assert.Equal(t, "http://example.com/role/Balance", link.Role)
	require.Len(t, link.Locators, 2)
	require.Len(t, link.Arcs, 1)

	arc := link.Arcs[0]
	assert.Equal(t, "assets", arc.From)
	assert.Equal(t, "currentAssets", arc.To)
	assert.Equal(t, xbrl.ArcroleParentChild, arc.Arcrole)
	assert.Equal(t, 1.0, arc.Order)
	assert.Equal(t, "optional", arc.Use)
}

func TestParseLinkbase_LabelResource(t *testing.T) {
	t.Parallel()

	doc := `<?xml version="1.0" encoding="UTF-8"?>
<link:linkbase xmlns:link="http://www.xbrl.org/2003/linkbase"
               xmlns:xlink="http://www.w3.org/1999/xlink"
               xmlns:xml="http://www.w3.org/XML/1998/namespace">
  <link:labelLink xlink:type="extended" xlink:role="http://www.xbrl.org/2003/role/link">
    <link:loc xlink:type="locator" xlink:href="core.xsd#Assets" xlink:label="assets"/>
    <link:label xlink:type="resource" xlink:label="assets_label"
                xlink:role="http://www.xbrl.org/2003/role/label" xml:lang="en">Assets</link:label>
    <link:labelArc xlink:type="arc" xlink:from="assets" xlink:to="assets_label"
                    xlink:arcrole="http://www.xbrl.org/2003/arcrole/concept-label"/>
  </link:labelLink>
</link:linkbase>`

	lb, err := xbrl.ParseLinkbase(strings.NewReader(doc), "core-lab.xml", xbrl.LinkbaseUnknown)
	require.NoError(t, err)
	assert.Equal(t, xbrl.LinkbaseLabel, lb.Type)

	require.Len(t, lb.Links, 1)
	require.Len(t, lb.Links[0].Resources, 1)
	res := lb.Links[0].Resources[0]
	assert.Equal(t, "Assets", res.Text)
	assert.Equal(t, "en", res.Lang)
}

func TestArcDefaultsOrderPriorityUse(t *testing.T) {
	t.Parallel()

	doc := `<?xml version="1.0" encoding="UTF-8"?>
<link:linkbase xmlns:link="http://www.xbrl.org/2003/linkbase"
               xmlns:xlink="http://www.w3.org/1999/xlink">
  <link:calculationLink xlink:type="extended" xlink:role="http://www.xbrl.org/2003/role/link">
    <link:loc xlink:type="locator" xlink:href="core.xsd#A" xlink:label="a"/>
    <link:loc xlink:type="locator" xlink:href="core.xsd#B" xlink:label="b"/>
    <link:calculationArc xlink:type="arc" xlink:from="a" xlink:to="b"
                          xlink:arcrole="http://www.xbrl.org/2003/arcrole/summation-item" weight="1"/>
  </link:calculationLink>
</link:linkbase>`

	lb, err := xbrl.ParseLinkbase(strings.NewReader(doc), "core-cal.xml", xbrl.LinkbaseUnknown)
	require.NoError(t, err)
	require.Len(t, lb.Links[0].Arcs, 1)

	arc := lb.Links[0].Arcs[0]
	assert.Equal(t, 1.0, arc.Order)
	assert.Equal(t, 0, arc.Priority)
	assert.Equal(t, "optional", arc.Use)
	require.NotNil(t, arc.Weight)
	assert.Equal(t, 1.0, *arc.Weight)
}

func TestLocatorSplitHref(t *testing.T) {
	t.Parallel()

	loc := xbrl.Locator{Href: "core.xsd#Assets"}
	url, frag := loc.SplitHref()
	assert.Equal(t, "core.xsd", url)
	assert.Equal(t, "Assets", frag)

	loc2 := xbrl.Locator{Href: "core.xsd"}
	url2, frag2 := loc2.SplitHref()
	assert.Equal(t, "core.xsd", url2)
	assert.Equal(t, "", frag2)
}
