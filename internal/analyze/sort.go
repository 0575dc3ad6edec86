package analyze

import "sort"

func sortBySeq(ts []*TypeInfo) {
	sort.SliceStable(ts, func(i, j int) bool {
		if ts[i].Seq != ts[j].Seq {
			return ts[i].Seq < ts[j].Seq
		}

		return ts[i].ID.String() < ts[j].ID.String()
	})
}
