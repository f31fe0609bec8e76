package scraper

// Fake DOM fixtures mirroring the markup shape the scraper walks.

import (
	bt "github.com/omriel/cardscraper/internal/browser/browsertest"
)

func txnRow(typeLabel, date, processed, desc, orig, charged, comments string) *bt.Node {
	cells := make([]*bt.Node, rowCellCount)
	for i := range cells {
		cells[i] = bt.Text("")
	}
	cells[cellType] = bt.Text(typeLabel)
	cells[cellDate] = bt.Text(date)
	cells[cellProcessedDate] = bt.Text(processed)
	cells[cellDescription] = bt.Text(desc)
	cells[cellOriginalAmount] = bt.Text(orig)
	cells[cellChargedAmount] = bt.Text(charged)
	cells[cellComments] = bt.Text(comments)
	return bt.Elem(map[string][]*bt.Node{"td": cells})
}

func normalRow(date, amount, desc string) *bt.Node {
	return txnRow("רגילה", date, date, desc, amount, amount, "")
}

func sectionNode(rows ...*bt.Node) *bt.Node {
	return bt.Elem(map[string][]*bt.Node{transactionRowSelector: rows})
}

func cardNode(number string, sections ...*bt.Node) *bt.Node {
	nameList := bt.Elem(map[string][]*bt.Node{
		"li": {bt.Text("Card"), bt.Text("(" + number + ")")},
	})
	return bt.Elem(map[string][]*bt.Node{
		cardNameListSelector: {nameList},
		cardSectionSelector:  sections,
	})
}

func txnPage(cards ...*bt.Node) *bt.Node {
	return bt.Elem(map[string][]*bt.Node{cardContainerSelector: cards})
}

// overviewCard builds one card block of the expanded overview list.
func overviewCard(name, number, chargeDate, localCharge, foreignCharge, utilization, limit string) *bt.Node {
	nameList := bt.Elem(map[string][]*bt.Node{
		"li": {bt.Text(name), bt.Text("(" + number + ")")},
	})
	top := bt.Elem(map[string][]*bt.Node{cardNameListSelector: {nameList}})

	localList := bt.Elem(map[string][]*bt.Node{
		"li": {bt.Elem(map[string][]*bt.Node{
			"span": {bt.Text(localCharge), bt.Text(chargeDate)},
		})},
	})
	foreignList := bt.Elem(map[string][]*bt.Node{
		"li": {bt.Elem(map[string][]*bt.Node{
			"span": {bt.Text(foreignCharge)},
		})},
	})
	charges := bt.Elem(map[string][]*bt.Node{"ul": {localList, foreignList}})

	credit := bt.Elem(map[string][]*bt.Node{
		"a":    {bt.Text(utilization)},
		"span": {bt.Text(limit)},
	})

	return bt.Elem(map[string][]*bt.Node{
		summaryCardTopSelector: {top},
		summaryChargesSelector: {charges},
		summaryCreditSelector:  {credit},
	})
}

func overviewPage(cards ...*bt.Node) *bt.Node {
	return bt.Elem(map[string][]*bt.Node{
		showCardListSelector: {bt.Text("")},
		summaryCardSelector:  cards,
	})
}
