// Package fuzztests houses Go fuzz harnesses for the front half of the
// pipeline (source -> parser -> irgen -> vm). The harnesses look for panics,
// hangs and generated blocks that fail ir.Validate.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
