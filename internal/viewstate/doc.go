// Package viewstate holds the per-page UI state of the portfolio: theme,
// navigation menu, tab and accordion selection, the contact form, and the
// home page greeting. Nothing here touches HTTP or storage; the server owns
// one set of these controllers per mounted page and renders from them.
package viewstate
