package scraper

import (
	"github.com/mmcdole/gofeed"
	"github.com/mmcdole/gofeed/atom"
	"github.com/mmcdole/gofeed/rss"
)

// sourceTitleKey is the gofeed.Item.Custom key holding the entry's nested source title.
const sourceTitleKey = "source_title"

// The default gofeed translators drop the per-item <source> element that news
// aggregators use to name the original publisher. These keep it in Item.Custom.

type sourceRSSTranslator struct {
	gofeed.DefaultRSSTranslator
}

func (t *sourceRSSTranslator) Translate(feed interface{}) (*gofeed.Feed, error) {
	out, err := t.DefaultRSSTranslator.Translate(feed)
	if err != nil {
		return nil, err
	}
	rf, ok := feed.(*rss.Feed)
	if !ok {
		return out, nil
	}
	for i, item := range rf.Items {
		if i >= len(out.Items) || item == nil || item.Source == nil {
			continue
		}
		setCustom(out.Items[i], sourceTitleKey, item.Source.Title)
	}
	return out, nil
}

type sourceAtomTranslator struct {
	gofeed.DefaultAtomTranslator
}

func (t *sourceAtomTranslator) Translate(feed interface{}) (*gofeed.Feed, error) {
	out, err := t.DefaultAtomTranslator.Translate(feed)
	if err != nil {
		return nil, err
	}
	af, ok := feed.(*atom.Feed)
	if !ok {
		return out, nil
	}
	for i, entry := range af.Entries {
		if i >= len(out.Items) || entry == nil || entry.Source == nil {
			continue
		}
		setCustom(out.Items[i], sourceTitleKey, entry.Source.Title)
	}
	return out, nil
}

func setCustom(item *gofeed.Item, key, value string) {
	if item == nil {
		return
	}
	if item.Custom == nil {
		item.Custom = make(map[string]string)
	}
	item.Custom[key] = value
}

// newParser returns a gofeed parser using the source-preserving translators.
func newParser() *gofeed.Parser {
	fp := gofeed.NewParser()
	fp.RSSTranslator = &sourceRSSTranslator{}
	fp.AtomTranslator = &sourceAtomTranslator{}
	return fp
}
