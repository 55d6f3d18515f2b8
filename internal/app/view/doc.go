// Package view holds the serializable state of each page and the pure
// reducers that move it from one state to the next. Controllers build a
// fresh state per request, feed it the events they observe, and render or
// serialize the result.
package view
