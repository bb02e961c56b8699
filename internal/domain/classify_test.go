package domain

import "testing"

const (
	uaChromeDesktop  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	uaEdge           = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36 Edg/120.0.2210.91"
	uaOpera          = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36 OPR/106.0.0.0"
	uaFirefox        = "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0"
	uaSafariIPhone   = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_2 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.2 Mobile/15E148 Safari/604.1"
	uaSafariIPad     = "Mozilla/5.0 (iPad; CPU OS 17_2 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.2 Safari/604.1"
	uaAndroidChrome  = "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36"
	uaAndroidTablet  = "Mozilla/5.0 (Linux; Android 13; SM-X700) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	uaCurl           = "curl/8.4.0"
	uaPythonRequests = "python-requests/2.31.0"
)

func TestClassifyDevice(t *testing.T) {
	tests := []struct {
		name string
		ua   string
		want string
	}{
		{"empty", "", DeviceUnknown},
		{"desktop chrome", uaChromeDesktop, DeviceDesktop},
		{"iphone", uaSafariIPhone, DeviceMobile},
		{"android phone", uaAndroidChrome, DeviceMobile},
		{"ipad", uaSafariIPad, DeviceTablet},
		// android wins over tablet because the mobile rule is checked first
		{"android tablet", uaAndroidTablet, DeviceMobile},
		{"curl", uaCurl, DeviceDesktop},
		{"uppercase", "SOME TABLET DEVICE", DeviceTablet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyDevice(tt.ua); got != tt.want {
				t.Errorf("ClassifyDevice() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifyBrowser(t *testing.T) {
	tests := []struct {
		name string
		ua   string
		want string
	}{
		{"empty", "", BrowserUnknown},
		{"chrome beats safari token", uaChromeDesktop, "Chrome"},
		{"edge beats chrome token", uaEdge, "Edge"},
		{"opera beats chrome token", uaOpera, "Opera"},
		{"firefox", uaFirefox, "Firefox"},
		{"mobile safari", uaSafariIPhone, "Safari"},
		{"curl", uaCurl, "curl"},
		{"python", uaPythonRequests, "Python"},
		{"unknown bot", "Googlebot/2.1", BrowserOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyBrowser(tt.ua); got != tt.want {
				t.Errorf("ClassifyBrowser() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifyReferrer(t *testing.T) {
	tests := []struct {
		ref  string
		want string
	}{
		{"", ReferrerDirect},
		{"https://www.google.com/search?q=x", "Google"},
		{"https://www.bing.com/", "Bing"},
		{"https://m.facebook.com/", "Facebook"},
		{"https://l.fb.com/", "Facebook"},
		{"https://twitter.com/someone", "Twitter/X"},
		{"https://t.co/abc", "Twitter/X"},
		{"https://x.com/someone", "Twitter/X"},
		{"https://www.linkedin.com/feed", "LinkedIn"},
		{"android-app://com.reddit.frontpage", "Reddit"},
		// "reddit.com" contains "t.co", and the Twitter/X rule is checked first
		{"https://old.reddit.com/r/golang", "Twitter/X"},
		{"https://www.youtube.com/watch?v=1", "YouTube"},
		{"https://www.instagram.com/", "Instagram"},
		{"https://WWW.GOOGLE.DE/", "Google"},
		{"https://news.ycombinator.com/", ReferrerOther},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			if got := ClassifyReferrer(tt.ref); got != tt.want {
				t.Errorf("ClassifyReferrer(%q) = %v, want %v", tt.ref, got, tt.want)
			}
		})
	}
}
