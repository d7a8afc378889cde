package ingesting

import (
	"strings"

	"github.com/vfg2006/sales-dashboard-api/internal/domain"
)

// SchemaMapping describes how an uploaded dataset is normalized before the
// append. Rename maps external display headers to canonical column names.
// Columns missing from the upload are accepted silently (partial schema
// uploads are fine); what happens to headers with no mapping entry depends
// on KeepUnmapped.
type SchemaMapping struct {
	Rename       map[string]string
	KeepUnmapped bool
}

// adColumnRename maps the advertising report's display headers to the
// amazon_ads columns. Anything the map doesn't cover is dropped.
var adColumnRename = map[string]string{
	"Products":             "products",
	"Status":               "status",
	"Ad Type":              "ad_type",
	"Sponsored":            "sponsored",
	"Sales(INR)":           "sales_inr",
	"ROAS":                 "roas",
	"Conversion Rate":      "conversion_rate",
	"Impressions":          "impressions",
	"Clicks":               "clicks",
	"CTR":                  "ctr",
	"Spend(INR)":           "spend_inr",
	"CPC(INR)":             "cpc_inr",
	"Orders":               "orders",
	"ACOS":                 "acos",
	"NTB Orders":           "ntb_orders",
	"% of Orders":          "percent_of_orders",
	"NTB Sales(INR)":       "ntb_sales_inr",
	"% of Sales":           "percent_of_sales",
	"Viewable Impressions": "viewable_impressions",
}

// mappingFor returns the schema mapping for a target table. monthly_sales
// uploads are assumed to already carry canonical headers, so everything is
// kept as-is and a mismatched file surfaces as a database schema error at
// the write step.
func mappingFor(table string) SchemaMapping {
	if table == domain.TableAmazonAds {
		return SchemaMapping{Rename: adColumnRename}
	}

	return SchemaMapping{KeepUnmapped: true}
}

// Normalize renames and projects the dataset's columns according to the
// mapping. Only columns actually present in the upload survive; absent
// canonical columns are simply not part of that batch's write.
func (m SchemaMapping) Normalize(ds *domain.Dataset) *domain.Dataset {
	keep := make([]int, 0, len(ds.Headers))
	headers := make([]string, 0, len(ds.Headers))

	for i, header := range ds.Headers {
		header = strings.TrimSpace(header)

		if canonical, ok := m.Rename[header]; ok {
			keep = append(keep, i)
			headers = append(headers, canonical)
			continue
		}

		if m.KeepUnmapped {
			keep = append(keep, i)
			headers = append(headers, header)
		}
	}

	normalized := &domain.Dataset{
		Headers: headers,
		Rows:    make([][]string, 0, len(ds.Rows)),
	}

	for _, row := range ds.Rows {
		projected := make([]string, len(keep))
		for j, i := range keep {
			if i < len(row) {
				projected[j] = row[i]
			}
		}
		normalized.Rows = append(normalized.Rows, projected)
	}

	return normalized
}
