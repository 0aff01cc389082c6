package enums

// RedditSort orders search results and comment trees. Search accepts
// relevance/hot/top/new/comments, threads accept confidence/top/new/
// controversial/old/qa.
type RedditSort string

const (
	SortRelevance     RedditSort = "relevance"
	SortHot           RedditSort = "hot"
	SortTop           RedditSort = "top"
	SortNew           RedditSort = "new"
	SortComments      RedditSort = "comments"
	SortConfidence    RedditSort = "confidence"
	SortControversial RedditSort = "controversial"
	SortOld           RedditSort = "old"
	SortQA            RedditSort = "qa"
)

var searchSorts = map[RedditSort]bool{
	SortRelevance: true, SortHot: true, SortTop: true, SortNew: true, SortComments: true,
}

var threadSorts = map[RedditSort]bool{
	SortConfidence: true, SortTop: true, SortNew: true, SortControversial: true, SortOld: true, SortQA: true,
}

func (s RedditSort) ValidForSearch() bool { return searchSorts[s] }

func (s RedditSort) ValidForThread() bool { return threadSorts[s] }

type RedditTime string

const (
	TimeHour  RedditTime = "hour"
	TimeDay   RedditTime = "day"
	TimeWeek  RedditTime = "week"
	TimeMonth RedditTime = "month"
	TimeYear  RedditTime = "year"
	TimeAll   RedditTime = "all"
)

func (t RedditTime) Valid() bool {
	switch t {
	case TimeHour, TimeDay, TimeWeek, TimeMonth, TimeYear, TimeAll:
		return true
	}
	return false
}
