package listings

import "fmt"

// cardScript extracts up to limit property cards from a result page.
func cardScript(limit int) string {
	return fmt.Sprintf(`
(function() {
	var limit = %d;
	var selectors = [
		'[data-testid="property-card"]',
		'article[class*="property"]',
		'div[class*="listing-item"]',
		'li[class*="result"]'
	];
	var cards = [];
	for (var i = 0; i < selectors.length; i++) {
		cards = document.querySelectorAll(selectors[i]);
		if (cards.length > 0) break;
	}

	function text(root, sels) {
		for (var i = 0; i < sels.length; i++) {
			var el = root.querySelector(sels[i]);
			if (el && el.innerText) return el.innerText.trim();
		}
		return '';
	}
	function line(lines, re) {
		return lines.find(function(l) { return re.test(l); }) || '';
	}

	var results = [];
	var seen = {};
	for (var j = 0; j < cards.length && results.length < limit; j++) {
		var c = cards[j];
		var link = c.querySelector('a[href]');
		var url = link ? link.href : '';
		if (!url || seen[url]) continue;
		seen[url] = true;

		var lines = (c.innerText || '').split('\n').map(function(l) { return l.trim(); }).filter(Boolean);
		results.push({
			title:     text(c, ['h2', 'h3', '[class*="title"]']) || lines[0] || '',
			price:     text(c, ['[class*="price"]']) || line(lines, /€|EUR|CVE|\$00/i),
			location:  text(c, ['[class*="location"]', '[class*="address"]']),
			type:      text(c, ['[class*="type"]']),
			bedrooms:  line(lines, /(quarto|bedroom|\bT\d)/i),
			bathrooms: line(lines, /(wc|casa de banho|bathroom)/i),
			area:      line(lines, /m²|m2/i),
			status:    text(c, ['[class*="status"]', '[class*="badge"]']),
			url:       url
		});
	}
	return results;
})()`, limit)
}

const nextPageScript = `
(function() {
	var candidates = [
		document.querySelector('a[rel="next"]'),
		document.querySelector('a[aria-label="Next"]'),
		document.querySelector('[class*="pagination"] a[class*="next"]')
	];
	for (var i = 0; i < candidates.length; i++) {
		if (candidates[i] && candidates[i].href) return candidates[i].href;
	}
	var links = document.querySelectorAll('nav a, [class*="pagination"] a');
	for (var j = 0; j < links.length; j++) {
		var t = (links[j].innerText || '').trim().toLowerCase();
		if (t === 'next' || t === 'seguinte' || t === '>' || t === '»') return links[j].href;
	}
	return '';
})()`

const detailScript = `
(function() {
	var result = {island: '', type: '', bedrooms: '', bathrooms: '', area: '', beach: '', status: '', features: [], description: ''};

	var rows = document.querySelectorAll('dl div, table tr, li[class*="detail"], [class*="characteristics"] li');
	for (var i = 0; i < rows.length; i++) {
		var t = (rows[i].innerText || '').trim();
		var lower = t.toLowerCase();
		if (!result.island && /(ilha|island)/.test(lower)) result.island = t.replace(/^[^:]*:\s*/, '');
		else if (!result.type && /(tipo|type)/.test(lower)) result.type = t.replace(/^[^:]*:\s*/, '');
		else if (!result.bedrooms && /(quarto|bedroom)/.test(lower)) result.bedrooms = t;
		else if (!result.bathrooms && /(wc|casa de banho|bathroom)/.test(lower)) result.bathrooms = t;
		else if (!result.area && /(m²|m2|área|area)/.test(lower)) result.area = t;
		else if (!result.beach && /(praia|beach|mar)/.test(lower)) result.beach = t.replace(/^[^:]*:\s*/, '');
		else if (!result.status && /(estado|status)/.test(lower)) result.status = t.replace(/^[^:]*:\s*/, '');
	}

	var feats = document.querySelectorAll('[class*="feature"] li, [class*="amenit"] li, ul[class*="extras"] li');
	for (var j = 0; j < feats.length && result.features.length < 40; j++) {
		var f = (feats[j].innerText || '').trim();
		if (f) result.features.push(f);
	}

	var desc = document.querySelector('[class*="description"]') || document.querySelector('main p');
	if (desc) result.description = desc.innerText.trim().substring(0, 500);
	return result;
})()`
