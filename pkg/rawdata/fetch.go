package rawdata

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/richard-senior/footform/internal/logger"
	"github.com/richard-senior/footform/pkg/pipeline"
	"github.com/richard-senior/footform/pkg/transport"
)

const footballDataIndex = "https://www.football-data.co.uk/englandm.php"

// season short code -> absolute csv url, filled lazily on first lookup
var discoveredOddsURLs map[string]string

func fetchURL(url string) ([]byte, error) {
	return transport.Get(url)
}

// OddsURL resolves the download link for a season by scraping the
// football-data.co.uk index page. The page lists every season's csv,
// so one fetch serves all lookups.
func OddsURL(season string) (string, error) {
	native, err := pipeline.SeasonToNative(season)
	if err != nil {
		return "", err
	}

	if discoveredOddsURLs == nil {
		urls, err := discoverOddsURLs()
		if err != nil {
			return "", err
		}
		discoveredOddsURLs = urls
	}

	url, ok := discoveredOddsURLs[native]
	if !ok {
		return "", fmt.Errorf("no download link found for season %s", season)
	}
	return url, nil
}

// discoverOddsURLs scrapes the index page for csv links matching the
// configured league code
func discoverOddsURLs() (map[string]string, error) {
	body, err := fetchURL(footballDataIndex)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch index page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse index page: %w", err)
	}

	wanted := "/" + pipeline.Config.LeagueCode + ".csv"
	urls := make(map[string]string)

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if !strings.HasSuffix(href, wanted) {
			return
		}
		// links look like mmz4281/2122/E0.csv
		parts := strings.Split(strings.Trim(href, "/"), "/")
		if len(parts) < 3 {
			return
		}
		native := parts[len(parts)-2]
		if len(native) != 4 {
			return
		}
		if strings.HasPrefix(href, "http") {
			urls[native] = href
		} else {
			urls[native] = "https://www.football-data.co.uk/" + strings.TrimPrefix(href, "/")
		}
	})

	if len(urls) == 0 {
		return nil, fmt.Errorf("no csv links found on index page for league %s", pipeline.Config.LeagueCode)
	}
	logger.Info("discovered", len(urls), "season download links")
	return urls, nil
}

// FetchAll warms the odds cache for every configured season
func FetchAll() error {
	for _, season := range pipeline.Config.Seasons {
		if _, err := GetOddsCSV(season); err != nil {
			return err
		}
	}
	return nil
}
