package domain

import "strings"

// Classifier bucket labels.
const (
	DeviceUnknown = "Unknown"
	DeviceMobile  = "Mobile"
	DeviceTablet  = "Tablet"
	DeviceDesktop = "Desktop"

	BrowserUnknown = "Unknown"
	BrowserOther   = "Other"

	ReferrerDirect = "Direct"
	ReferrerOther  = "Other"
)

// substringRule maps any of its needles to a label.
// Rules are evaluated in order; the first hit wins.
type substringRule struct {
	needles []string
	label   string
}

var deviceRules = []substringRule{
	{needles: []string{"mobile", "android", "iphone"}, label: DeviceMobile},
	{needles: []string{"tablet", "ipad"}, label: DeviceTablet},
}

// Order matters: Edge and Opera UAs also carry "chrome/", Chrome UAs carry "safari/".
var browserRules = []substringRule{
	{needles: []string{"edg/"}, label: "Edge"},
	{needles: []string{"opr/"}, label: "Opera"},
	{needles: []string{"chrome/"}, label: "Chrome"},
	{needles: []string{"firefox/"}, label: "Firefox"},
	{needles: []string{"safari/"}, label: "Safari"},
	{needles: []string{"curl"}, label: "curl"},
	{needles: []string{"python"}, label: "Python"},
}

var referrerRules = []substringRule{
	{needles: []string{"google"}, label: "Google"},
	{needles: []string{"bing"}, label: "Bing"},
	{needles: []string{"facebook", "fb.com"}, label: "Facebook"},
	{needles: []string{"twitter", "t.co", "x.com"}, label: "Twitter/X"},
	{needles: []string{"linkedin"}, label: "LinkedIn"},
	{needles: []string{"reddit"}, label: "Reddit"},
	{needles: []string{"youtube"}, label: "YouTube"},
	{needles: []string{"instagram"}, label: "Instagram"},
}

func classify(input string, rules []substringRule, empty, fallback string) string {
	if input == "" {
		return empty
	}
	s := strings.ToLower(input)
	for _, r := range rules {
		for _, n := range r.needles {
			if strings.Contains(s, n) {
				return r.label
			}
		}
	}
	return fallback
}

// ClassifyDevice buckets a User-Agent into a device family.
func ClassifyDevice(ua string) string {
	return classify(ua, deviceRules, DeviceUnknown, DeviceDesktop)
}

// ClassifyBrowser buckets a User-Agent into a browser family.
func ClassifyBrowser(ua string) string {
	return classify(ua, browserRules, BrowserUnknown, BrowserOther)
}

// ClassifyReferrer buckets a Referer header into a traffic source.
func ClassifyReferrer(ref string) string {
	return classify(ref, referrerRules, ReferrerDirect, ReferrerOther)
}
